package memstore

import (
	"context"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
)

type accountRecord struct {
	AccountID   account.ID
	ExternalID  account.ExternalID
	DisplayName string
	Email       string
	Role        account.Role
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r accountRecord) toDomain() *account.Account {
	return &account.Account{
		AccountID:   r.AccountID,
		ExternalID:  r.ExternalID,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		Role:        r.Role,
		AvatarURL:   r.AvatarURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type AccountStorage struct {
	domain.Tracker
	tx *Tx
}

func NewAccountStorage(tx *Tx) *AccountStorage {
	return &AccountStorage{tx: tx}
}

func (s *AccountStorage) Add(ctx context.Context, a *account.Account) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.identities[a.ExternalID]; ok {
		return account.ErrAlreadyLinked
	}

	a.AccountID = account.ID(t.next("accounts"))
	t.accounts[a.AccountID] = accountRecord{
		AccountID:   a.AccountID,
		ExternalID:  a.ExternalID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Role:        a.Role,
		AvatarURL:   a.AvatarURL,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	t.identities[a.ExternalID] = a.AccountID

	s.MarkSeen(a)
	return nil
}

func (s *AccountStorage) GetByID(ctx context.Context, id account.ID) (*account.Account, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := t.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return r.toDomain(), nil
}

func (s *AccountStorage) GetByExternalID(ctx context.Context, id account.ExternalID) (*account.Account, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	accountID, ok := t.identities[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return s.GetByID(ctx, accountID)
}

func (s *AccountStorage) Persist(ctx context.Context, a *account.Account) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	r, ok := t.accounts[a.AccountID]
	if !ok {
		return account.ErrAccountNotFound
	}

	r.DisplayName = a.DisplayName
	r.Email = a.Email
	r.Role = a.Role
	r.AvatarURL = a.AvatarURL
	r.UpdatedAt = a.UpdatedAt
	t.accounts[a.AccountID] = r

	s.MarkSeen(a)
	return nil
}

func (s *AccountStorage) Close() error {
	s.Clear()
	return nil
}
