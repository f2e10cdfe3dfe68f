package workoutservice

import (
	"context"

	"github.com/burenotti/go_training_backend/internal/app/unitofwork"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
)

func (s *Service) CreateExercise(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	name string,
	description string,
) (e *workout.Exercise, err error) {
	e, err = workout.NewExercise(name, description)
	if err != nil {
		return nil, err
	}
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		return ctx.Exercises.Add(ctx.Context(), e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) GetExercise(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ExerciseID,
) (e *workout.Exercise, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		e, err = ctx.Exercises.GetByID(ctx.Context(), id)
		return err
	})
	return
}

func (s *Service) ListExercises(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (exercises []*workout.Exercise, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		exercises, err = ctx.Exercises.List(ctx.Context())
		return err
	})
	return
}

func (s *Service) UpdateExercise(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ExerciseID,
	name string,
	description string,
) (e *workout.Exercise, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		e, err = ctx.Exercises.GetByID(ctx.Context(), id)
		if err != nil {
			return err
		}
		if err := e.Update(name, description); err != nil {
			return err
		}
		return ctx.Exercises.Persist(ctx.Context(), e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteExercise fails with ErrExerciseInUse while a workout references the
// exercise.
func (s *Service) DeleteExercise(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ExerciseID,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		return ctx.Exercises.Delete(ctx.Context(), id)
	})
}
