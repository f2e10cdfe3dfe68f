package unitofwork

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
)

var (
	ErrRollback = errors.New("rollback")
)

type AtomicContext interface {
	Context() context.Context
	Commit() error
	Close() error
	CollectEvents() []domain.Event
}

type MessageBus interface {
	PublishEvents(events ...domain.Event) error
}

type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout bounds every unit of work, including its commit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

type UnitOfWork[T AtomicContext] struct {
	db         storage.Beginner
	newContext func(context.Context, storage.Tx) (T, error)
	msgBus     MessageBus
	logger     *slog.Logger
	timeout    time.Duration
}

func New[T AtomicContext](
	db storage.Beginner,
	newCtx func(context.Context, storage.Tx) (T, error),
	msgBus MessageBus,
	logger *slog.Logger,
	opts ...Option,
) *UnitOfWork[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &UnitOfWork[T]{
		db:         db,
		newContext: newCtx,
		msgBus:     msgBus,
		logger:     logger,
		timeout:    o.timeout,
	}
}

// Atomic runs do inside a single transaction and commits it if do succeeds.
// Events collected from the storages are published only after a successful
// commit.
func (uow *UnitOfWork[T]) Atomic(
	ctx context.Context,
	do func(T) error,
) (err error) {
	if uow.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uow.timeout)
		defer cancel()
	}

	tx, err := uow.db.Begin(ctx)
	if err != nil {
		return backendError(err)
	}

	// Rollback runs on every path, panics included. After a commit it is a
	// no-op returning ErrTxDone.
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, storage.ErrTxDone) {
			uow.logger.Error("failed to rollback transaction", "error", err)
		}
	}()

	atomicCtx, err := uow.newContext(ctx, tx)
	if err != nil {
		return backendError(err)
	}

	defer func() {
		if err := atomicCtx.Close(); err != nil {
			uow.logger.Error("failed to close atomic context", "error", err)
		}
	}()

	if err := do(atomicCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = backendError(err)
		}
		return stateRollbackError(err)
	}

	if err := ctx.Err(); err != nil {
		return stateRollbackError(backendError(err))
	}

	events := atomicCtx.CollectEvents()

	if err := atomicCtx.Commit(); err != nil {
		if storage.CommitOutcomeUnknown(err) {
			uow.logger.Error("commit outcome unknown, reconcile manually",
				"error", err,
				"events", describe(events),
			)
			return errors.Join(fmt.Errorf("commit: %w", err), domain.ErrPartialWrite)
		}
		return backendError(err)
	}

	if err := uow.msgBus.PublishEvents(events...); err != nil {
		uow.logger.Error("failed to publish events", "error", err)
		return err
	}

	return nil
}

func describe(events []domain.Event) []string {
	result := make([]string, 0, len(events))
	for _, e := range events {
		result = append(result, fmt.Sprintf("%s %+v", e.Type(), e))
	}
	return result
}

func backendError(err error) error {
	if errors.Is(err, domain.ErrBackendUnavailable) {
		return err
	}
	return errors.Join(err, domain.ErrBackendUnavailable)
}

func stateRollbackError(err error) error {
	return errors.Join(err, ErrRollback)
}
