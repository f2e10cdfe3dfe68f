package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/friendship"
	"golang.org/x/text/cases"
)

type friendshipRecord struct {
	FriendshipID friendship.ID
	RequesterID  friendship.AccountID
	AddresseeID  friendship.AccountID
	Status       friendship.Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r friendshipRecord) toDomain() *friendship.Friendship {
	return &friendship.Friendship{
		FriendshipID: r.FriendshipID,
		RequesterID:  r.RequesterID,
		AddresseeID:  r.AddresseeID,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r friendshipRecord) pairOf(a, b friendship.AccountID) bool {
	return (r.RequesterID == a && r.AddresseeID == b) || (r.RequesterID == b && r.AddresseeID == a)
}

func (r friendshipRecord) other(id friendship.AccountID) friendship.AccountID {
	if r.RequesterID == id {
		return r.AddresseeID
	}
	return r.RequesterID
}

func profileOf(r accountRecord) friendship.Profile {
	return friendship.Profile{
		AccountID:   friendship.AccountID(r.AccountID),
		DisplayName: r.DisplayName,
		Email:       r.Email,
		Role:        string(r.Role),
		AvatarURL:   r.AvatarURL,
	}
}

type FriendshipStorage struct {
	domain.Tracker
	tx *Tx
}

func NewFriendshipStorage(tx *Tx) *FriendshipStorage {
	return &FriendshipStorage{tx: tx}
}

func (s *FriendshipStorage) Add(ctx context.Context, f *friendship.Friendship) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.accounts[account.ID(f.RequesterID)]; !ok {
		return friendship.ErrAccountNotFound
	}
	if _, ok := t.accounts[account.ID(f.AddresseeID)]; !ok {
		return friendship.ErrAccountNotFound
	}
	for _, r := range t.friendships {
		if r.pairOf(f.RequesterID, f.AddresseeID) {
			return friendship.ErrFriendshipExists
		}
	}

	f.FriendshipID = friendship.ID(t.next("friendships"))
	t.friendships[f.FriendshipID] = friendshipRecord{
		FriendshipID: f.FriendshipID,
		RequesterID:  f.RequesterID,
		AddresseeID:  f.AddresseeID,
		Status:       f.Status,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}

	s.MarkSeen(f)
	return nil
}

func (s *FriendshipStorage) GetByID(ctx context.Context, id friendship.ID) (*friendship.Friendship, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := t.friendships[id]
	if !ok {
		return nil, friendship.ErrFriendshipNotFound
	}
	return r.toDomain(), nil
}

func (s *FriendshipStorage) FindPair(ctx context.Context, a, b friendship.AccountID) (*friendship.Friendship, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range t.friendships {
		if r.pairOf(a, b) {
			return r.toDomain(), nil
		}
	}
	return nil, friendship.ErrFriendshipNotFound
}

func (s *FriendshipStorage) Persist(ctx context.Context, f *friendship.Friendship) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	r, ok := t.friendships[f.FriendshipID]
	if !ok {
		return friendship.ErrFriendshipNotFound
	}
	r.Status = f.Status
	r.UpdatedAt = f.UpdatedAt
	t.friendships[f.FriendshipID] = r

	s.MarkSeen(f)
	return nil
}

func (s *FriendshipStorage) DeletePair(ctx context.Context, a, b friendship.AccountID) (int64, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	for id, r := range t.friendships {
		if r.pairOf(a, b) {
			delete(t.friendships, id)
			n++
		}
	}
	return n, nil
}

func (s *FriendshipStorage) ListFriends(ctx context.Context, id friendship.AccountID) ([]*friendship.Friend, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}

	var result []*friendship.Friend
	for _, r := range t.friendships {
		if r.Status != friendship.StatusAccepted || !(r.RequesterID == id || r.AddresseeID == id) {
			continue
		}
		other, ok := t.accounts[account.ID(r.other(id))]
		if !ok {
			continue
		}
		result = append(result, &friendship.Friend{
			Profile:      profileOf(other),
			FriendshipID: r.FriendshipID,
			Since:        r.UpdatedAt,
		})
	}

	slices.SortFunc(result, func(a, b *friendship.Friend) int {
		return cmp.Or(
			cmp.Compare(a.DisplayName, b.DisplayName),
			cmp.Compare(a.AccountID, b.AccountID),
		)
	})
	return result, nil
}

func (s *FriendshipStorage) ListPending(ctx context.Context, id friendship.AccountID) ([]*friendship.Request, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}

	var result []*friendship.Request
	for _, r := range t.friendships {
		if r.Status != friendship.StatusPending || r.AddresseeID != id {
			continue
		}
		from, ok := t.accounts[account.ID(r.RequesterID)]
		if !ok {
			continue
		}
		result = append(result, &friendship.Request{
			FriendshipID: r.FriendshipID,
			From:         profileOf(from),
			SentAt:       r.CreatedAt,
		})
	}

	slices.SortFunc(result, func(a, b *friendship.Request) int {
		return cmp.Or(
			b.SentAt.Compare(a.SentAt),
			cmp.Compare(b.FriendshipID, a.FriendshipID),
		)
	})
	return result, nil
}

// SearchCandidates matches query as a case folded substring of display names
// and emails.
func (s *FriendshipStorage) SearchCandidates(
	ctx context.Context,
	query string,
	exclude friendship.AccountID,
	limit int,
) ([]*friendship.Profile, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(query)

	var result []*friendship.Profile
	for _, r := range t.accounts {
		if friendship.AccountID(r.AccountID) == exclude {
			continue
		}
		if !strings.Contains(fold.String(r.DisplayName), needle) &&
			!strings.Contains(fold.String(r.Email), needle) {
			continue
		}
		p := profileOf(r)
		result = append(result, &p)
	}

	slices.SortFunc(result, func(a, b *friendship.Profile) int {
		return cmp.Or(
			cmp.Compare(a.DisplayName, b.DisplayName),
			cmp.Compare(a.AccountID, b.AccountID),
		)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *FriendshipStorage) Close() error {
	s.Clear()
	return nil
}
