package workoutservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
)

type WorkoutStorage interface {
	Add(ctx context.Context, w *workout.Workout) error
	GetByID(ctx context.Context, id workout.ID) (*workout.Workout, error)
	GetDetailed(ctx context.Context, id workout.ID) (*workout.Detailed, error)
	ListByOwner(ctx context.Context, owner workout.AccountID) ([]*workout.Detailed, error)
	ListScheduled(ctx context.Context, student workout.AccountID) ([]*workout.Scheduled, error)
	AddAssignment(ctx context.Context, a *workout.Assignment) error
	DeleteLineItems(ctx context.Context, id workout.ID) error
	DeleteAssignments(ctx context.Context, id workout.ID) error
	Delete(ctx context.Context, id workout.ID) error
	CollectEvents() []domain.Event
	Close() error
}

type ExerciseStorage interface {
	Add(ctx context.Context, e *workout.Exercise) error
	GetByID(ctx context.Context, id workout.ExerciseID) (*workout.Exercise, error)
	List(ctx context.Context) ([]*workout.Exercise, error)
	Persist(ctx context.Context, e *workout.Exercise) error
	Delete(ctx context.Context, id workout.ExerciseID) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.Tx
	Workouts  WorkoutStorage
	Exercises ExerciseStorage
	events    domain.Events
}

func NewAtomicContext(
	ctx context.Context,
	tx storage.Tx,
	workouts WorkoutStorage,
	exercises ExerciseStorage,
) *AtomicContext {
	return &AtomicContext{
		ctx:       ctx,
		Tx:        tx,
		Workouts:  workouts,
		Exercises: exercises,
	}
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.Tx.Commit()
}

func (a *AtomicContext) Record(e domain.Event) {
	a.events = append(a.events, e)
}

func (a *AtomicContext) Close() (err error) {
	if closeErr := a.Workouts.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	if closeErr := a.Exercises.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	if err != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), err)
	}

	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	workoutEvents := a.Workouts.CollectEvents()
	exerciseEvents := a.Exercises.CollectEvents()
	own := a.events.PopEvents()

	events := make([]domain.Event, 0, len(workoutEvents)+len(exerciseEvents)+len(own))
	events = append(events, workoutEvents...)
	events = append(events, exerciseEvents...)
	events = append(events, own...)
	return events
}
