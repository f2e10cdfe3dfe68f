package identityapp

import (
	"context"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
)

type AccountStorage interface {
	Add(ctx context.Context, a *account.Account) error
	GetByID(ctx context.Context, id account.ID) (*account.Account, error)
	GetByExternalID(ctx context.Context, id account.ExternalID) (*account.Account, error)
	Persist(ctx context.Context, a *account.Account) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.Tx
	AccountStorage
}

func NewAtomicContext(ctx context.Context, tx storage.Tx, accounts AccountStorage) *AtomicContext {
	return &AtomicContext{
		ctx:            ctx,
		Tx:             tx,
		AccountStorage: accounts,
	}
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.Tx.Commit()
}

func (a *AtomicContext) Close() error {
	return a.AccountStorage.Close()
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.AccountStorage.CollectEvents()
}
