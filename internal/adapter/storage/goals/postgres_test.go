package goalstorage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	goalstorage "github.com/burenotti/go_training_backend/internal/adapter/storage/goals"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil/pgtest"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
	"github.com/jackc/pgerrcode"
)

func weightGoal(now time.Time) *goal.Goal {
	return &goal.Goal{
		OwnerID:   1,
		Metric:    goal.MetricWeight,
		Target:    75,
		Unit:      "kg",
		StartDate: now,
		History:   []goal.Entry{{RecordedAt: now, Value: 80}},
	}
}

func TestAddWritesHistory(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := goalstorage.NewPostgresStorage(tx)
	g := weightGoal(time.Now())

	mock.ExpectQuery(`INSERT INTO goals .* RETURNING goal_id`).
		WithArgs(int64(1), "weight", 75.0, "kg", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"goal_id"}).AddRow(9))
	mock.ExpectExec(`INSERT INTO goal_entries`).
		WithArgs(int64(9), sqlmock.AnyArg(), 80.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Add(context.Background(), g); err != nil {
		t.Fatal(err)
	}
	if g.GoalID != 9 {
		t.Errorf("expected id 9, got %d", g.GoalID)
	}
}

func TestAddUnknownOwner(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := goalstorage.NewPostgresStorage(tx)

	mock.ExpectQuery(`INSERT INTO goals`).
		WillReturnError(pgtest.Violation(pgerrcode.ForeignKeyViolation, "goals_owner_id_fkey"))

	if err := s.Add(context.Background(), weightGoal(time.Now())); !errors.Is(err, goal.ErrOwnerNotFound) {
		t.Errorf("expected owner not found, got %v", err)
	}
}

func TestAddEntryUnknownGoal(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := goalstorage.NewPostgresStorage(tx)

	mock.ExpectExec(`INSERT INTO goal_entries`).
		WillReturnError(pgtest.Violation(pgerrcode.ForeignKeyViolation, "goal_entries_goal_id_fkey"))

	err := s.AddEntry(context.Background(), 9, goal.Entry{RecordedAt: time.Now(), Value: 78})
	if !errors.Is(err, goal.ErrGoalNotFound) {
		t.Errorf("expected goal not found, got %v", err)
	}
}

func TestGetByIDLoadsHistory(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := goalstorage.NewPostgresStorage(tx)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM goals WHERE goal_id = \?`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"goal_id", "owner_id", "metric", "target", "unit", "start_date", "target_date"}).
			AddRow(9, 1, "weight", 75.0, "kg", start, nil))
	mock.ExpectQuery(`FROM goal_entries WHERE goal_id = ANY\(\?\)`).
		WithArgs([]int64{9}).
		WillReturnRows(sqlmock.NewRows([]string{"goal_id", "recorded_at", "value"}).
			AddRow(9, start, 80.0).
			AddRow(9, start.Add(24*time.Hour), 78.0))

	g, err := s.GetByID(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.History) != 2 || g.History[1].Value != 78 {
		t.Fatalf("unexpected history %+v", g.History)
	}
	if g.TargetDate != nil {
		t.Errorf("expected no target date, got %v", g.TargetDate)
	}
}
