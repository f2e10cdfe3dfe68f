package friendship

import (
	"fmt"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
)

var (
	ErrFriendshipNotFound = fmt.Errorf("%w: friendship", domain.ErrNotFound)
	ErrAccountNotFound    = fmt.Errorf("%w: account", domain.ErrNotFound)
	ErrFriendshipExists   = fmt.Errorf("%w: friendship already exists or is pending", domain.ErrDuplicateRelationship)
	ErrSelfFriendship     = fmt.Errorf("%w: cannot befriend yourself", domain.ErrInvalidArgument)
	ErrNotPending         = fmt.Errorf("%w: friendship is not pending", domain.ErrInvalidArgument)
	ErrNotAddressee       = fmt.Errorf("%w: only the addressee can accept a request", domain.ErrForbidden)
)

const (
	EventRequested = "friendship.requested"
	EventAccepted  = "friendship.accepted"
	EventRemoved   = "friendship.removed"
)

type ID int64
type AccountID int64

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	// StatusBlocked is part of the schema but nothing produces it.
	StatusBlocked Status = "blocked"
)

// Friendship is an unordered pair. RequesterID and AddresseeID only record
// who asked whom; at most one row exists for a pair in either ordering.
type Friendship struct {
	domain.Aggregate
	FriendshipID ID
	RequesterID  AccountID
	AddresseeID  AccountID
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func New(requester, addressee AccountID) (*Friendship, error) {
	if requester == addressee {
		return nil, ErrSelfFriendship
	}
	now := time.Now().UTC()
	f := &Friendship{
		RequesterID: requester,
		AddresseeID: addressee,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.PushEvent(RequestedEvent{At: now, RequesterID: requester, AddresseeID: addressee})
	return f, nil
}

func (f *Friendship) Accept() error {
	if f.Status != StatusPending {
		return ErrNotPending
	}
	f.Status = StatusAccepted
	f.UpdatedAt = time.Now().UTC()
	f.PushEvent(AcceptedEvent{
		At:           f.UpdatedAt,
		FriendshipID: f.FriendshipID,
		RequesterID:  f.RequesterID,
		AddresseeID:  f.AddresseeID,
	})
	return nil
}

// Other returns the participant that is not id.
func (f *Friendship) Other(id AccountID) AccountID {
	if f.RequesterID == id {
		return f.AddresseeID
	}
	return f.RequesterID
}

func (f *Friendship) Involves(id AccountID) bool {
	return f.RequesterID == id || f.AddresseeID == id
}

// Profile is the public part of an account as seen by other users.
type Profile struct {
	AccountID   AccountID
	DisplayName string
	Email       string
	Role        string
	AvatarURL   string
}

type Friend struct {
	Profile
	FriendshipID ID
	Since        time.Time
}

type Request struct {
	FriendshipID ID
	From         Profile
	SentAt       time.Time
}

type RequestedEvent struct {
	At          time.Time
	RequesterID AccountID
	AddresseeID AccountID
}

func (e RequestedEvent) Type() string {
	return EventRequested
}

func (e RequestedEvent) PublishedAt() time.Time {
	return e.At
}

type AcceptedEvent struct {
	At           time.Time
	FriendshipID ID
	RequesterID  AccountID
	AddresseeID  AccountID
}

func (e AcceptedEvent) Type() string {
	return EventAccepted
}

func (e AcceptedEvent) PublishedAt() time.Time {
	return e.At
}

type RemovedEvent struct {
	At time.Time
	A  AccountID
	B  AccountID
}

func (e RemovedEvent) Type() string {
	return EventRemoved
}

func (e RemovedEvent) PublishedAt() time.Time {
	return e.At
}
