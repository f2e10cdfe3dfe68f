package measurementservice

import (
	"context"
	"log/slog"

	"github.com/burenotti/go_training_backend/internal/app/unitofwork"
	"github.com/burenotti/go_training_backend/internal/domain/measurement"
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Record stores the measurements the trainer took for the student. Nil
// values were not measured.
func (s *Service) Record(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	student measurement.AccountID,
	trainer measurement.AccountID,
	weight, height, waist, hip *float64,
) (m *measurement.Measurement, err error) {
	m, err = measurement.New(student, trainer, weight, height, waist, hip)
	if err != nil {
		return nil, err
	}
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		return ctx.Add(ctx.Context(), m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListByStudent(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	student measurement.AccountID,
) (list []*measurement.Measurement, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		list, err = ctx.MeasurementStorage.ListByStudent(ctx.Context(), student)
		return err
	})
	return
}

func (s *Service) Delete(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id measurement.ID,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		return ctx.MeasurementStorage.Delete(ctx.Context(), id)
	})
}
