package goalservice

import (
	"context"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
)

type GoalStorage interface {
	Add(ctx context.Context, g *goal.Goal) error
	AddEntry(ctx context.Context, id goal.ID, e goal.Entry) error
	Track(g *goal.Goal)
	GetByID(ctx context.Context, id goal.ID) (*goal.Goal, error)
	ListByOwner(ctx context.Context, owner goal.AccountID) ([]*goal.Goal, error)
	Delete(ctx context.Context, id goal.ID) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.Tx
	GoalStorage
}

func NewAtomicContext(ctx context.Context, tx storage.Tx, goals GoalStorage) *AtomicContext {
	return &AtomicContext{
		ctx:         ctx,
		Tx:          tx,
		GoalStorage: goals,
	}
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.Tx.Commit()
}

func (a *AtomicContext) Close() error {
	return a.GoalStorage.Close()
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.GoalStorage.CollectEvents()
}
