package friendservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/burenotti/go_training_backend/internal/app/unitofwork"
	"github.com/burenotti/go_training_backend/internal/domain/friendship"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// SendRequest creates a pending friendship from requester to addressee. It
// fails with ErrFriendshipExists when the pair already has a row in either
// ordering, whatever its status.
func (s *Service) SendRequest(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	requester friendship.AccountID,
	addressee friendship.AccountID,
) (f *friendship.Friendship, err error) {
	f, err = friendship.New(requester, addressee)
	if err != nil {
		return nil, err
	}

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		_, err := ctx.FindPair(ctx.Context(), requester, addressee)
		if err == nil {
			return friendship.ErrFriendshipExists
		}
		if !errors.Is(err, friendship.ErrFriendshipNotFound) {
			return err
		}
		return ctx.Add(ctx.Context(), f)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Accept moves a pending friendship to accepted without checking who
// accepts it.
func (s *Service) Accept(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id friendship.ID,
) (*friendship.Friendship, error) {
	return s.accept(ctx, uow, id, nil)
}

// AcceptAs is Accept restricted to the addressee of the request.
func (s *Service) AcceptAs(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id friendship.ID,
	addressee friendship.AccountID,
) (*friendship.Friendship, error) {
	return s.accept(ctx, uow, id, &addressee)
}

func (s *Service) accept(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id friendship.ID,
	addressee *friendship.AccountID,
) (f *friendship.Friendship, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		f, err = ctx.GetByID(ctx.Context(), id)
		if err != nil {
			return err
		}
		if addressee != nil && f.AddresseeID != *addressee {
			return friendship.ErrNotAddressee
		}
		if err := f.Accept(); err != nil {
			return err
		}
		return ctx.Persist(ctx.Context(), f)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Remove deletes the friendship between a and b in either ordering. Removing
// a pair without a friendship is not an error.
func (s *Service) Remove(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	a friendship.AccountID,
	b friendship.AccountID,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		n, err := ctx.DeletePair(ctx.Context(), a, b)
		if err != nil {
			return err
		}
		if n > 0 {
			ctx.Record(friendship.RemovedEvent{At: time.Now().UTC(), A: a, B: b})
		}
		return nil
	})
}

func (s *Service) ListFriends(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id friendship.AccountID,
) (friends []*friendship.Friend, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		friends, err = ctx.FriendshipStorage.ListFriends(ctx.Context(), id)
		return err
	})
	return
}

// ListPending returns the requests waiting for id to accept them.
func (s *Service) ListPending(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id friendship.AccountID,
) (requests []*friendship.Request, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		requests, err = ctx.FriendshipStorage.ListPending(ctx.Context(), id)
		return err
	})
	return
}

func (s *Service) AreFriends(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	a friendship.AccountID,
	b friendship.AccountID,
) (ok bool, err error) {
	if a == b {
		return false, nil
	}
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		f, err := ctx.FindPair(ctx.Context(), a, b)
		if errors.Is(err, friendship.ErrFriendshipNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		ok = f.Status == friendship.StatusAccepted
		return nil
	})
	return
}

// Search matches query against display names and emails, ignoring case.
// Only exclude itself is filtered out of the result; existing friends are
// returned too.
func (s *Service) Search(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	query string,
	exclude friendship.AccountID,
	limit int,
) (profiles []*friendship.Profile, err error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)
	query = strings.TrimSpace(query)

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		profiles, err = ctx.SearchCandidates(ctx.Context(), query, exclude, limit)
		return err
	})
	return
}
