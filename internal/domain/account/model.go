package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
)

var (
	ErrAccountNotFound  = fmt.Errorf("%w: account", domain.ErrNotFound)
	ErrAlreadyLinked    = fmt.Errorf("%w: identity is already linked to an account", domain.ErrDuplicateRelationship)
	ErrInvalidRole      = fmt.Errorf("%w: role must be student or trainer", domain.ErrInvalidArgument)
	ErrEmptyDisplayName = fmt.Errorf("%w: display name is empty", domain.ErrInvalidArgument)
)

const (
	EventRegistered     = "account.registered"
	EventProfileUpdated = "account.profile_updated"
)

type ID int64

// ExternalID is the identity provider's subject. It is opaque and never
// converted to an ID.
type ExternalID string

type Role string

const (
	RoleStudent Role = "student"
	RoleTrainer Role = "trainer"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(s)); r {
	case RoleStudent, RoleTrainer:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// Session is what the identity provider knows about the signed in principal.
type Session struct {
	ExternalID ExternalID
	Email      string
	Name       string
}

type Account struct {
	domain.Aggregate `diff:"-"`
	AccountID        ID         `diff:"-"`
	ExternalID       ExternalID `diff:"-"`
	DisplayName      string     `diff:"display_name"`
	Email            string     `diff:"email"`
	Role             Role       `diff:"role"`
	AvatarURL        string     `diff:"avatar_url"`
	CreatedAt        time.Time  `diff:"-"`
	UpdatedAt        time.Time  `diff:"-"`
}

// Synthesize builds the shadow record used when a signed in principal has no
// account yet. The result is not persisted and has a zero AccountID.
func Synthesize(s Session) *Account {
	name := s.Name
	if name == "" {
		name, _, _ = strings.Cut(s.Email, "@")
	}
	return &Account{
		ExternalID:  s.ExternalID,
		DisplayName: name,
		Email:       s.Email,
		Role:        RoleStudent,
	}
}

func (a *Account) Persisted() bool {
	return a.AccountID != 0
}

// Register prepares a synthesized account for insertion.
func (a *Account) Register(role Role) {
	now := time.Now().UTC()
	a.Role = role
	a.CreatedAt = now
	a.UpdatedAt = now
	a.PushEvent(RegisteredEvent{
		At:         now,
		ExternalID: a.ExternalID,
		Email:      a.Email,
		Role:       role,
	})
}

func (a *Account) UpdateProfile(displayName, avatarURL string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return ErrEmptyDisplayName
	}
	a.DisplayName = displayName
	a.AvatarURL = avatarURL
	a.UpdatedAt = time.Now().UTC()
	a.PushEvent(ProfileUpdatedEvent{At: a.UpdatedAt, AccountID: a.AccountID})
	return nil
}

// Identity is one row of the mapping between the provider's identifier space
// and account ids.
type Identity struct {
	ExternalID ExternalID
	AccountID  ID
	LinkedAt   time.Time
}

type RegisteredEvent struct {
	At         time.Time
	ExternalID ExternalID
	Email      string
	Role       Role
}

func (e RegisteredEvent) Type() string {
	return EventRegistered
}

func (e RegisteredEvent) PublishedAt() time.Time {
	return e.At
}

type ProfileUpdatedEvent struct {
	At        time.Time
	AccountID ID
}

func (e ProfileUpdatedEvent) Type() string {
	return EventProfileUpdated
}

func (e ProfileUpdatedEvent) PublishedAt() time.Time {
	return e.At
}
