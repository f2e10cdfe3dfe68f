package measurementservice

import (
	"context"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/measurement"
)

type MeasurementStorage interface {
	Add(ctx context.Context, m *measurement.Measurement) error
	ListByStudent(ctx context.Context, student measurement.AccountID) ([]*measurement.Measurement, error)
	Delete(ctx context.Context, id measurement.ID) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.Tx
	MeasurementStorage
}

func NewAtomicContext(ctx context.Context, tx storage.Tx, measurements MeasurementStorage) *AtomicContext {
	return &AtomicContext{
		ctx:                ctx,
		Tx:                 tx,
		MeasurementStorage: measurements,
	}
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.Tx.Commit()
}

func (a *AtomicContext) Close() error {
	return a.MeasurementStorage.Close()
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.MeasurementStorage.CollectEvents()
}
