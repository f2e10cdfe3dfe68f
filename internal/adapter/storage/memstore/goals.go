package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
)

type goalRecord struct {
	GoalID     goal.ID
	OwnerID    goal.AccountID
	Metric     goal.Metric
	Target     float64
	Unit       string
	StartDate  time.Time
	TargetDate *time.Time
}

type GoalStorage struct {
	domain.Tracker
	tx *Tx
}

func NewGoalStorage(tx *Tx) *GoalStorage {
	return &GoalStorage{tx: tx}
}

func (s *GoalStorage) Add(ctx context.Context, g *goal.Goal) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.accounts[account.ID(g.OwnerID)]; !ok {
		return goal.ErrOwnerNotFound
	}

	g.GoalID = goal.ID(t.next("goals"))
	r := goalRecord{
		GoalID:    g.GoalID,
		OwnerID:   g.OwnerID,
		Metric:    g.Metric,
		Target:    g.Target,
		Unit:      g.Unit,
		StartDate: g.StartDate,
	}
	if g.TargetDate != nil {
		d := *g.TargetDate
		r.TargetDate = &d
	}
	t.goals[g.GoalID] = r
	t.entries[g.GoalID] = append([]goal.Entry(nil), g.History...)

	s.MarkSeen(g)
	return nil
}

func (s *GoalStorage) AddEntry(ctx context.Context, id goal.ID, e goal.Entry) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.goals[id]; !ok {
		return goal.ErrGoalNotFound
	}
	t.entries[id] = append(t.entries[id], e)
	return nil
}

func (s *GoalStorage) Track(g *goal.Goal) {
	s.MarkSeen(g)
}

func (s *GoalStorage) toDomain(t *tables, r goalRecord) *goal.Goal {
	g := &goal.Goal{
		GoalID:    r.GoalID,
		OwnerID:   r.OwnerID,
		Metric:    r.Metric,
		Target:    r.Target,
		Unit:      r.Unit,
		StartDate: r.StartDate,
		History:   append([]goal.Entry(nil), t.entries[r.GoalID]...),
	}
	if r.TargetDate != nil {
		d := *r.TargetDate
		g.TargetDate = &d
	}
	return g
}

func (s *GoalStorage) GetByID(ctx context.Context, id goal.ID) (*goal.Goal, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := t.goals[id]
	if !ok {
		return nil, goal.ErrGoalNotFound
	}
	return s.toDomain(t, r), nil
}

func (s *GoalStorage) ListByOwner(ctx context.Context, owner goal.AccountID) ([]*goal.Goal, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}

	var result []*goal.Goal
	for _, r := range t.goals {
		if r.OwnerID == owner {
			result = append(result, s.toDomain(t, r))
		}
	}
	slices.SortFunc(result, func(a, b *goal.Goal) int {
		return cmp.Or(
			b.StartDate.Compare(a.StartDate),
			cmp.Compare(b.GoalID, a.GoalID),
		)
	})
	return result, nil
}

func (s *GoalStorage) Delete(ctx context.Context, id goal.ID) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.goals[id]; !ok {
		return goal.ErrGoalNotFound
	}
	delete(t.goals, id)
	delete(t.entries, id)
	return nil
}

func (s *GoalStorage) Close() error {
	s.Clear()
	return nil
}
