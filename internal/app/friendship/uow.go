package friendservice

import (
	"context"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/friendship"
)

type FriendshipStorage interface {
	Add(ctx context.Context, f *friendship.Friendship) error
	GetByID(ctx context.Context, id friendship.ID) (*friendship.Friendship, error)
	FindPair(ctx context.Context, a, b friendship.AccountID) (*friendship.Friendship, error)
	Persist(ctx context.Context, f *friendship.Friendship) error
	DeletePair(ctx context.Context, a, b friendship.AccountID) (int64, error)
	ListFriends(ctx context.Context, id friendship.AccountID) ([]*friendship.Friend, error)
	ListPending(ctx context.Context, id friendship.AccountID) ([]*friendship.Request, error)
	SearchCandidates(
		ctx context.Context,
		query string,
		exclude friendship.AccountID,
		limit int,
	) ([]*friendship.Profile, error)
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.Tx
	FriendshipStorage
	events domain.Events
}

func NewAtomicContext(ctx context.Context, tx storage.Tx, friendships FriendshipStorage) *AtomicContext {
	return &AtomicContext{
		ctx:               ctx,
		Tx:                tx,
		FriendshipStorage: friendships,
	}
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.Tx.Commit()
}

func (a *AtomicContext) Close() error {
	return a.FriendshipStorage.Close()
}

// Record queues an event that is not attached to a loaded aggregate.
func (a *AtomicContext) Record(e domain.Event) {
	a.events = append(a.events, e)
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return append(a.FriendshipStorage.CollectEvents(), a.events.PopEvents()...)
}
