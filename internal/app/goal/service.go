package goalservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/burenotti/go_training_backend/internal/app/unitofwork"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
)

type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateGoal stores a new goal whose history starts with initial.
func (s *Service) CreateGoal(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	owner goal.AccountID,
	metric goal.Metric,
	target float64,
	unit string,
	initial float64,
	targetDate *time.Time,
) (g *goal.Goal, err error) {
	if _, err := goal.ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	g, err = goal.New(owner, metric, target, unit, initial, targetDate)
	if err != nil {
		return nil, err
	}

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		return ctx.Add(ctx.Context(), g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RecordProgress appends value to the history of the goal. Existing entries
// are never modified.
func (s *Service) RecordProgress(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id goal.ID,
	value float64,
) (g *goal.Goal, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		g, err = ctx.GetByID(ctx.Context(), id)
		if err != nil {
			return err
		}

		entry, err := g.Record(value, s.now())
		if err != nil {
			return err
		}
		if err := ctx.AddEntry(ctx.Context(), g.GoalID, entry); err != nil {
			return err
		}
		ctx.Track(g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) GetGoal(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id goal.ID,
) (g *goal.Goal, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		g, err = ctx.GetByID(ctx.Context(), id)
		return err
	})
	return
}

func (s *Service) ListGoals(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	owner goal.AccountID,
) (goals []*goal.Goal, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		goals, err = ctx.ListByOwner(ctx.Context(), owner)
		return err
	})
	return
}

func (s *Service) DeleteGoal(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id goal.ID,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		return ctx.Delete(ctx.Context(), id)
	})
}
