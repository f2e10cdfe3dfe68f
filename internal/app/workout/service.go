package workoutservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/burenotti/go_training_backend/internal/app/unitofwork"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
)

type Option func(*Service)

// WithLocale sets the BCP 47 locale used to name shared copies.
func WithLocale(locale string) Option {
	return func(s *Service) {
		s.locale = locale
	}
}

type Service struct {
	logger *slog.Logger
	locale string
}

func New(logger *slog.Logger, opts ...Option) *Service {
	s := &Service{logger: logger, locale: "pt-BR"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateWorkout stores the workout and its line items atomically.
func (s *Service) CreateWorkout(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	owner workout.AccountID,
	name string,
	description string,
	items []workout.LineItem,
) (w *workout.Workout, err error) {
	w, err = workout.New(owner, name, description, items)
	if err != nil {
		return nil, err
	}

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		if err := ctx.Workouts.Add(ctx.Context(), w); err != nil {
			return err
		}
		w.Created()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) GetWorkout(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ID,
) (d *workout.Detailed, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		d, err = ctx.Workouts.GetDetailed(ctx.Context(), id)
		return err
	})
	return
}

// ListForStudent returns the student's schedule, shared copies included.
func (s *Service) ListForStudent(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	student workout.AccountID,
) (schedule []*workout.Scheduled, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		schedule, err = ctx.Workouts.ListScheduled(ctx.Context(), student)
		return err
	})
	return
}

// ListForTrainer returns the workouts owned by trainer, newest first.
func (s *Service) ListForTrainer(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	trainer workout.AccountID,
) (workouts []*workout.Detailed, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		workouts, err = ctx.Workouts.ListByOwner(ctx.Context(), trainer)
		return err
	})
	return
}

// Assign schedules the workout for the student on the given weekday. The
// same workout may be assigned to the same student any number of times.
func (s *Service) Assign(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ID,
	student workout.AccountID,
	weekday workout.Weekday,
) (a *workout.Assignment, err error) {
	if _, err := workout.ParseWeekday(string(weekday)); err != nil {
		return nil, err
	}

	a = workout.NewAssignment(id, student, weekday)
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		if err := ctx.Workouts.AddAssignment(ctx.Context(), a); err != nil {
			return err
		}
		ctx.Record(workout.AssignedEvent{
			At:           a.CreatedAt,
			AssignmentID: a.AssignmentID,
			WorkoutID:    a.WorkoutID,
			StudentID:    a.StudentID,
			Weekday:      a.Weekday,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Share gives recipient an independent copy of the workout. The copy keeps
// the owner and line items of the source, gets a localized name suffix and is
// assigned to recipient with the shared marker instead of a weekday.
func (s *Service) Share(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ID,
	recipient workout.AccountID,
) (copied *workout.Workout, a *workout.Assignment, err error) {
	suffix := workout.SharedSuffix(s.locale)

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		src, err := ctx.Workouts.GetByID(ctx.Context(), id)
		if err != nil {
			return err
		}

		copied = src.SharedCopy(suffix)
		if err := ctx.Workouts.Add(ctx.Context(), copied); err != nil {
			return err
		}

		a = workout.NewAssignment(copied.WorkoutID, recipient, workout.WeekdayShared)
		if err := ctx.Workouts.AddAssignment(ctx.Context(), a); err != nil {
			return err
		}

		ctx.Record(workout.SharedEvent{
			At:           a.CreatedAt,
			SourceID:     src.WorkoutID,
			CopyID:       copied.WorkoutID,
			RecipientID:  recipient,
			AssignmentID: a.AssignmentID,
			LineItems:    len(copied.LineItems),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return copied, a, nil
}

// DeleteWorkout removes the line items, the assignments and the workout, in
// that order, within one transaction.
func (s *Service) DeleteWorkout(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ID,
) error {
	return s.deleteWorkout(ctx, uow, id, nil)
}

// DeleteWorkoutAs is DeleteWorkout restricted to the owner of the workout.
func (s *Service) DeleteWorkoutAs(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ID,
	owner workout.AccountID,
) error {
	return s.deleteWorkout(ctx, uow, id, &owner)
}

func (s *Service) deleteWorkout(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id workout.ID,
	owner *workout.AccountID,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		if owner != nil {
			w, err := ctx.Workouts.GetByID(ctx.Context(), id)
			if err != nil {
				return err
			}
			if w.OwnerID != *owner {
				return workout.ErrNotOwner
			}
		}

		if err := ctx.Workouts.DeleteLineItems(ctx.Context(), id); err != nil {
			return err
		}
		if err := ctx.Workouts.DeleteAssignments(ctx.Context(), id); err != nil {
			return err
		}
		if err := ctx.Workouts.Delete(ctx.Context(), id); err != nil {
			return err
		}
		ctx.Record(workout.DeletedEvent{At: time.Now().UTC(), WorkoutID: id})
		return nil
	})
}
