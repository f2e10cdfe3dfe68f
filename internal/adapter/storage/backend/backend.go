// Package backend binds the storage implementations to the atomic contexts
// of the application services.
package backend

import (
	"context"
	"fmt"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	accountstorage "github.com/burenotti/go_training_backend/internal/adapter/storage/accounts"
	exercisestorage "github.com/burenotti/go_training_backend/internal/adapter/storage/exercises"
	friendstorage "github.com/burenotti/go_training_backend/internal/adapter/storage/friendships"
	goalstorage "github.com/burenotti/go_training_backend/internal/adapter/storage/goals"
	measurementstorage "github.com/burenotti/go_training_backend/internal/adapter/storage/measurements"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/memstore"
	workoutstorage "github.com/burenotti/go_training_backend/internal/adapter/storage/workouts"
	friendservice "github.com/burenotti/go_training_backend/internal/app/friendship"
	goalservice "github.com/burenotti/go_training_backend/internal/app/goal"
	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	measurementservice "github.com/burenotti/go_training_backend/internal/app/measurement"
	workoutservice "github.com/burenotti/go_training_backend/internal/app/workout"
)

type Backend interface {
	storage.Beginner
	IdentityContext(ctx context.Context, tx storage.Tx) (*identityapp.AtomicContext, error)
	FriendshipContext(ctx context.Context, tx storage.Tx) (*friendservice.AtomicContext, error)
	WorkoutContext(ctx context.Context, tx storage.Tx) (*workoutservice.AtomicContext, error)
	GoalContext(ctx context.Context, tx storage.Tx) (*goalservice.AtomicContext, error)
	MeasurementContext(ctx context.Context, tx storage.Tx) (*measurementservice.AtomicContext, error)
}

type Postgres struct {
	db *storage.DB
}

func NewPostgres(db *storage.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Begin(ctx context.Context) (storage.Tx, error) {
	return p.db.Begin(ctx)
}

func dbContext(tx storage.Tx) (storage.DBContext, error) {
	db, ok := tx.(storage.DBContext)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", tx)
	}
	return db, nil
}

func (p *Postgres) IdentityContext(ctx context.Context, tx storage.Tx) (*identityapp.AtomicContext, error) {
	db, err := dbContext(tx)
	if err != nil {
		return nil, err
	}
	return identityapp.NewAtomicContext(ctx, tx, accountstorage.NewPostgresStorage(db)), nil
}

func (p *Postgres) FriendshipContext(ctx context.Context, tx storage.Tx) (*friendservice.AtomicContext, error) {
	db, err := dbContext(tx)
	if err != nil {
		return nil, err
	}
	return friendservice.NewAtomicContext(ctx, tx, friendstorage.NewPostgresStorage(db)), nil
}

func (p *Postgres) WorkoutContext(ctx context.Context, tx storage.Tx) (*workoutservice.AtomicContext, error) {
	db, err := dbContext(tx)
	if err != nil {
		return nil, err
	}
	return workoutservice.NewAtomicContext(
		ctx,
		tx,
		workoutstorage.NewPostgresStorage(db),
		exercisestorage.NewPostgresStorage(db),
	), nil
}

func (p *Postgres) GoalContext(ctx context.Context, tx storage.Tx) (*goalservice.AtomicContext, error) {
	db, err := dbContext(tx)
	if err != nil {
		return nil, err
	}
	return goalservice.NewAtomicContext(ctx, tx, goalstorage.NewPostgresStorage(db)), nil
}

func (p *Postgres) MeasurementContext(ctx context.Context, tx storage.Tx) (*measurementservice.AtomicContext, error) {
	db, err := dbContext(tx)
	if err != nil {
		return nil, err
	}
	return measurementservice.NewAtomicContext(ctx, tx, measurementstorage.NewPostgresStorage(db)), nil
}

type Memory struct {
	Store *memstore.Store
}

func NewMemory() *Memory {
	return &Memory{Store: memstore.New()}
}

func (m *Memory) Begin(ctx context.Context) (storage.Tx, error) {
	return m.Store.Begin(ctx)
}

func memTx(tx storage.Tx) (*memstore.Tx, error) {
	t, ok := tx.(*memstore.Tx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", tx)
	}
	return t, nil
}

func (m *Memory) IdentityContext(ctx context.Context, tx storage.Tx) (*identityapp.AtomicContext, error) {
	t, err := memTx(tx)
	if err != nil {
		return nil, err
	}
	return identityapp.NewAtomicContext(ctx, tx, memstore.NewAccountStorage(t)), nil
}

func (m *Memory) FriendshipContext(ctx context.Context, tx storage.Tx) (*friendservice.AtomicContext, error) {
	t, err := memTx(tx)
	if err != nil {
		return nil, err
	}
	return friendservice.NewAtomicContext(ctx, tx, memstore.NewFriendshipStorage(t)), nil
}

func (m *Memory) WorkoutContext(ctx context.Context, tx storage.Tx) (*workoutservice.AtomicContext, error) {
	t, err := memTx(tx)
	if err != nil {
		return nil, err
	}
	return workoutservice.NewAtomicContext(
		ctx,
		tx,
		memstore.NewWorkoutStorage(t),
		memstore.NewExerciseStorage(t),
	), nil
}

func (m *Memory) GoalContext(ctx context.Context, tx storage.Tx) (*goalservice.AtomicContext, error) {
	t, err := memTx(tx)
	if err != nil {
		return nil, err
	}
	return goalservice.NewAtomicContext(ctx, tx, memstore.NewGoalStorage(t)), nil
}

func (m *Memory) MeasurementContext(ctx context.Context, tx storage.Tx) (*measurementservice.AtomicContext, error) {
	t, err := memTx(tx)
	if err != nil {
		return nil, err
	}
	return measurementservice.NewAtomicContext(ctx, tx, memstore.NewMeasurementStorage(t)), nil
}
