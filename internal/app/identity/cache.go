package identityapp

import (
	"context"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain/account"
)

// Cache stores resolved accounts between requests.
type Cache interface {
	GetJSON(ctx context.Context, key string, value any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

type cachedAccount struct {
	AccountID   account.ID   `json:"account_id"`
	ExternalID  string       `json:"external_id"`
	DisplayName string       `json:"display_name"`
	Email       string       `json:"email"`
	Role        account.Role `json:"role"`
	AvatarURL   string       `json:"avatar_url"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func toCached(a *account.Account) cachedAccount {
	return cachedAccount{
		AccountID:   a.AccountID,
		ExternalID:  string(a.ExternalID),
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Role:        a.Role,
		AvatarURL:   a.AvatarURL,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (c cachedAccount) toDomain() *account.Account {
	return &account.Account{
		AccountID:   c.AccountID,
		ExternalID:  account.ExternalID(c.ExternalID),
		DisplayName: c.DisplayName,
		Email:       c.Email,
		Role:        c.Role,
		AvatarURL:   c.AvatarURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func cacheKey(id account.ExternalID) string {
	return "account:" + string(id)
}
