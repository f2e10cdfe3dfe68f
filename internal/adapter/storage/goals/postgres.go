package goalstorage

import (
	"context"
	"database/sql"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
	"github.com/leporo/sqlf"
	"github.com/samber/lo"
)

const (
	ownerFK = "goals_owner_id_fkey"
	goalFK  = "goal_entries_goal_id_fkey"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

// Add inserts the goal together with its history.
func (s *PostgresStorage) Add(ctx context.Context, g *goal.Goal) error {
	q := sqlf.InsertInto("goals").
		Set("owner_id", g.OwnerID).
		Set("metric", g.Metric).
		Set("target", g.Target).
		Set("unit", g.Unit).
		Set("start_date", g.StartDate).
		Set("target_date", g.TargetDate).
		Returning("goal_id").To(&g.GoalID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, ownerFK) {
			return goal.ErrOwnerNotFound
		}
		return storage.InternalError(err)
	}

	for _, e := range g.History {
		if err := s.AddEntry(ctx, g.GoalID, e); err != nil {
			return err
		}
	}

	s.base.MarkSeen(g)
	return nil
}

// AddEntry appends e to the history of the goal. Entries are never updated.
func (s *PostgresStorage) AddEntry(ctx context.Context, id goal.ID, e goal.Entry) error {
	q := sqlf.InsertInto("goal_entries").
		Set("goal_id", id).
		Set("recorded_at", e.RecordedAt).
		Set("value", e.Value)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, goalFK) {
			return goal.ErrGoalNotFound
		}
		return storage.InternalError(err)
	}
	return nil
}

// Track registers g so that its events are published with the unit of work.
func (s *PostgresStorage) Track(g *goal.Goal) {
	s.base.MarkSeen(g)
}

func (s *PostgresStorage) GetByID(ctx context.Context, id goal.ID) (*goal.Goal, error) {
	goals, err := s.list(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("goal_id = ?", id)
	})
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, goal.ErrGoalNotFound
	}
	return goals[0], nil
}

func (s *PostgresStorage) ListByOwner(ctx context.Context, owner goal.AccountID) ([]*goal.Goal, error) {
	return s.list(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("owner_id = ?", owner).OrderBy("start_date DESC", "goal_id DESC")
	})
}

func (s *PostgresStorage) list(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) ([]*goal.Goal, error) {
	var r goalRow

	q := sqlf.From("goals").
		Select("goal_id").To(&r.GoalID).
		Select("owner_id").To(&r.OwnerID).
		Select("metric").To(&r.Metric).
		Select("target").To(&r.Target).
		Select("unit").To(&r.Unit).
		Select("start_date").To(&r.StartDate).
		Select("target_date").To(&r.TargetDate)

	q = modify(q)

	var result []*goal.Goal
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, r.toDomain())
	})
	if err != nil {
		return nil, storage.InternalError(err)
	}
	if len(result) == 0 {
		return result, nil
	}

	byID := lo.KeyBy(result, func(g *goal.Goal) goal.ID { return g.GoalID })
	ids := lo.Map(result, func(g *goal.Goal, _ int) int64 { return int64(g.GoalID) })

	var (
		goalID goal.ID
		entry  goal.Entry
	)
	entries := sqlf.From("goal_entries").
		Select("goal_id").To(&goalID).
		Select("recorded_at").To(&entry.RecordedAt).
		Select("value").To(&entry.Value).
		Where("goal_id = ANY(?)", ids).
		OrderBy("goal_id", "recorded_at", "entry_id")

	err = entries.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		g := byID[goalID]
		g.History = append(g.History, entry)
	})
	if err != nil {
		return nil, storage.InternalError(err)
	}
	return result, nil
}

// Delete removes the goal. Its history goes with it.
func (s *PostgresStorage) Delete(ctx context.Context, id goal.ID) error {
	q := sqlf.DeleteFrom("goals").Where("goal_id = ?", id)
	res, err := q.ExecAndClose(ctx, s.base.DB)
	return pgutil.AssertUpdated(res, err, goal.ErrGoalNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type goalRow struct {
	GoalID     int64
	OwnerID    int64
	Metric     string
	Target     float64
	Unit       string
	StartDate  time.Time
	TargetDate *time.Time
}

func (r *goalRow) toDomain() *goal.Goal {
	g := &goal.Goal{
		GoalID:    goal.ID(r.GoalID),
		OwnerID:   goal.AccountID(r.OwnerID),
		Metric:    goal.Metric(r.Metric),
		Target:    r.Target,
		Unit:      r.Unit,
		StartDate: r.StartDate,
	}
	if r.TargetDate != nil {
		t := *r.TargetDate
		g.TargetDate = &t
	}
	return g
}
