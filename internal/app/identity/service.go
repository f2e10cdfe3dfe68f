package identityapp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/burenotti/go_training_backend/internal/app/unitofwork"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
)

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

type Service struct {
	logger *slog.Logger
	cache  Cache
}

func New(logger *slog.Logger, opts ...Option) *Service {
	s := &Service{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve maps the session to its account. A principal without a stored
// account gets a synthesized student account that is not persisted and has a
// zero id.
func (s *Service) Resolve(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	session *account.Session,
) (*account.Account, error) {
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}

	if a, ok := s.fromCache(ctx, session.ExternalID); ok {
		return a, nil
	}

	var a *account.Account
	err := uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		a, err = ctx.GetByExternalID(ctx.Context(), session.ExternalID)
		return err
	})

	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		return account.Synthesize(*session), nil
	case err != nil:
		return nil, err
	}

	s.toCache(ctx, a)
	return a, nil
}

// Register persists the account of the signed in principal. It is
// idempotent: a principal that already has an account gets it back unchanged.
func (s *Service) Register(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	session *account.Session,
	role account.Role,
) (*account.Account, error) {
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}

	var a *account.Account
	err := uow.Atomic(ctx, func(ctx *AtomicContext) error {
		existing, err := ctx.GetByExternalID(ctx.Context(), session.ExternalID)
		if err == nil {
			a = existing
			return nil
		}
		if !errors.Is(err, account.ErrAccountNotFound) {
			return err
		}

		a = account.Synthesize(*session)
		a.Register(role)
		return ctx.Add(ctx.Context(), a)
	})

	// A concurrent registration won the race.
	if errors.Is(err, account.ErrAlreadyLinked) {
		err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
			var err error
			a, err = ctx.GetByExternalID(ctx.Context(), session.ExternalID)
			return err
		})
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, session.ExternalID)
	return a, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id account.ID,
	displayName string,
	avatarURL string,
) (*account.Account, error) {
	var a *account.Account
	err := uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		a, err = ctx.GetByID(ctx.Context(), id)
		if err != nil {
			return err
		}
		if err := a.UpdateProfile(displayName, avatarURL); err != nil {
			return err
		}
		return ctx.Persist(ctx.Context(), a)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, a.ExternalID)
	return a, nil
}

func (s *Service) GetAccount(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	id account.ID,
) (a *account.Account, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		a, err = ctx.GetByID(ctx.Context(), id)
		return err
	})
	return
}

func (s *Service) fromCache(ctx context.Context, id account.ExternalID) (*account.Account, bool) {
	if s.cache == nil {
		return nil, false
	}
	var c cachedAccount
	ok, err := s.cache.GetJSON(ctx, cacheKey(id), &c)
	if err != nil {
		s.logger.Warn("account cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return c.toDomain(), true
}

func (s *Service) toCache(ctx context.Context, a *account.Account) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, cacheKey(a.ExternalID), toCached(a)); err != nil {
		s.logger.Warn("account cache write failed", "error", err)
	}
}

func (s *Service) invalidate(ctx context.Context, id account.ExternalID) {
	if s.cache == nil || id == "" {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("account cache invalidation failed", "error", err)
	}
}
