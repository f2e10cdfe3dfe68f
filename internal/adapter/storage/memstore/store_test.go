package memstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
)

func addAccount(t *testing.T, ctx context.Context, tx *Tx, ext string) *account.Account {
	t.Helper()
	a := account.Synthesize(account.Session{ExternalID: account.ExternalID(ext), Email: ext + "@example.com"})
	a.Register(account.RoleStudent)
	if err := NewAccountStorage(tx).Add(ctx, a); err != nil {
		t.Fatal(err)
	}
	return a
}

func lookup(t *testing.T, ctx context.Context, s *Store, ext string) error {
	t.Helper()
	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()
	_, err = NewAccountStorage(tx).GetByExternalID(ctx, account.ExternalID(ext))
	return err
}

func TestCommitPublishesWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	a := addAccount(t, ctx, tx, "ext-1")
	if a.AccountID != 1 {
		t.Errorf("expected first id to be 1, got %d", a.AccountID)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := tx.Rollback(); !errors.Is(err, storage.ErrTxDone) {
		t.Errorf("expected ErrTxDone after commit, got %v", err)
	}

	if err := lookup(t, ctx, s, "ext-1"); err != nil {
		t.Errorf("committed account not found: %v", err)
	}
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	addAccount(t, ctx, tx, "ext-1")
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}

	if err := lookup(t, ctx, s, "ext-1"); !errors.Is(err, account.ErrAccountNotFound) {
		t.Errorf("expected rolled back account to be absent, got %v", err)
	}
}

func TestFailNextCommit(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.FailNextCommit(driver.ErrBadConn)

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	addAccount(t, ctx, tx, "ext-1")
	if err := tx.Commit(); !errors.Is(err, driver.ErrBadConn) {
		t.Fatalf("expected injected error, got %v", err)
	}

	if err := lookup(t, ctx, s, "ext-1"); !errors.Is(err, account.ErrAccountNotFound) {
		t.Errorf("failed commit must not apply writes, got %v", err)
	}

	tx, err = s.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	addAccount(t, ctx, tx, "ext-1")
	if err := tx.Commit(); err != nil {
		t.Errorf("fault must apply to one commit only, got %v", err)
	}
}

func TestBeginWaitsForRunningTx(t *testing.T) {
	s := New()
	tx, err := s.BeginTx(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.BeginTx(ctx); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Errorf("expected backend unavailable while locked, got %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}
	next, err := s.BeginTx(context.Background())
	if err != nil {
		t.Fatalf("expected begin to succeed after rollback, got %v", err)
	}
	next.Rollback()
}

func TestDoneTxRejectsQueries(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	accounts := NewAccountStorage(tx)
	tx.Rollback()

	if _, err := accounts.GetByID(ctx, 1); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Errorf("expected backend unavailable, got %v", err)
	}
}

func TestWorkoutDeleteNeedsEmptyChildren(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()

	owner := addAccount(t, ctx, tx, "trainer")
	squat, err := workout.NewExercise("Squat", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := NewExerciseStorage(tx).Add(ctx, squat); err != nil {
		t.Fatal(err)
	}

	workouts := NewWorkoutStorage(tx)
	w, err := workout.New(workout.AccountID(owner.AccountID), "Leg Day", "", []workout.LineItem{
		{ExerciseID: squat.ExerciseID, Sets: 4, Reps: 12},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := workouts.Add(ctx, w); err != nil {
		t.Fatal(err)
	}

	if err := workouts.Delete(ctx, w.WorkoutID); err == nil {
		t.Error("expected delete to fail while line items exist")
	}
	if err := NewExerciseStorage(tx).Delete(ctx, squat.ExerciseID); !errors.Is(err, workout.ErrExerciseInUse) {
		t.Errorf("expected ErrExerciseInUse, got %v", err)
	}

	if err := workouts.DeleteLineItems(ctx, w.WorkoutID); err != nil {
		t.Fatal(err)
	}
	if err := workouts.DeleteAssignments(ctx, w.WorkoutID); err != nil {
		t.Fatal(err)
	}
	if err := workouts.Delete(ctx, w.WorkoutID); err != nil {
		t.Errorf("expected delete to succeed, got %v", err)
	}
	if err := workouts.Delete(ctx, w.WorkoutID); !errors.Is(err, workout.ErrWorkoutNotFound) {
		t.Errorf("expected ErrWorkoutNotFound, got %v", err)
	}
}
