package friendstorage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/friendship"
	"github.com/leporo/sqlf"
)

const pairConstraint = "friendships_pair_key"

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, f *friendship.Friendship) error {
	q := sqlf.InsertInto("friendships").
		Set("requester_id", f.RequesterID).
		Set("addressee_id", f.AddresseeID).
		Set("status", f.Status).
		Set("created_at", f.CreatedAt).
		Set("updated_at", f.UpdatedAt).
		Returning("friendship_id").To(&f.FriendshipID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, pairConstraint) {
			return friendship.ErrFriendshipExists
		}
		if _, ok := pgutil.ViolatesForeignKey(err); ok {
			return friendship.ErrAccountNotFound
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(f)
	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) (*friendship.Friendship, error) {
	var r friendshipRow

	q := sqlf.From("friendships f").
		Select("f.friendship_id").To(&r.FriendshipID).
		Select("f.requester_id").To(&r.RequesterID).
		Select("f.addressee_id").To(&r.AddresseeID).
		Select("f.status").To(&r.Status).
		Select("f.created_at").To(&r.CreatedAt).
		Select("f.updated_at").To(&r.UpdatedAt)

	q = modify(q)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, friendship.ErrFriendshipNotFound
		}
		return nil, storage.InternalError(err)
	}

	f := &friendship.Friendship{
		FriendshipID: friendship.ID(r.FriendshipID),
		RequesterID:  friendship.AccountID(r.RequesterID),
		AddresseeID:  friendship.AccountID(r.AddresseeID),
		Status:       friendship.Status(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	return f, nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, id friendship.ID) (*friendship.Friendship, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("f.friendship_id = ?", id)
	})
}

// FindPair returns the row for a and b in either ordering. The row is locked
// until the transaction ends.
func (s *PostgresStorage) FindPair(ctx context.Context, a, b friendship.AccountID) (*friendship.Friendship, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.
			Where("((f.requester_id = ? AND f.addressee_id = ?) OR (f.requester_id = ? AND f.addressee_id = ?))", a, b, b, a).
			Clause("FOR UPDATE")
	})
}

func (s *PostgresStorage) Persist(ctx context.Context, f *friendship.Friendship) error {
	q := sqlf.Update("friendships").
		Set("status", f.Status).
		Set("updated_at", f.UpdatedAt).
		Where("friendship_id = ?", f.FriendshipID)

	res, err := q.ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, friendship.ErrFriendshipNotFound); err != nil {
		return err
	}

	s.base.MarkSeen(f)
	return nil
}

func (s *PostgresStorage) DeletePair(ctx context.Context, a, b friendship.AccountID) (int64, error) {
	q := sqlf.DeleteFrom("friendships").
		Where("((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?))", a, b, b, a)

	res, err := q.ExecAndClose(ctx, s.base.DB)
	if err != nil {
		return 0, storage.InternalError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storage.InternalError(err)
	}
	return n, nil
}

func (s *PostgresStorage) ListFriends(ctx context.Context, id friendship.AccountID) ([]*friendship.Friend, error) {
	var tmp struct {
		FriendshipID int64
		UpdatedAt    time.Time
		profileRow
	}

	q := sqlf.From("friendships f").
		Join("accounts a", "a.account_id IN (f.requester_id, f.addressee_id)").
		Where("(f.requester_id = ? OR f.addressee_id = ?)", id, id).
		Where("a.account_id <> ?", id).
		Where("f.status = ?", friendship.StatusAccepted).
		OrderBy("a.display_name").
		Select("f.friendship_id").To(&tmp.FriendshipID).
		Select("f.updated_at").To(&tmp.UpdatedAt)
	tmp.profileRow.selectFrom(q, "a")

	var result []*friendship.Friend
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, &friendship.Friend{
			Profile:      tmp.profileRow.toDomain(),
			FriendshipID: friendship.ID(tmp.FriendshipID),
			Since:        tmp.UpdatedAt,
		})
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, storage.InternalError(err)
	}
	return result, nil
}

func (s *PostgresStorage) ListPending(ctx context.Context, id friendship.AccountID) ([]*friendship.Request, error) {
	var tmp struct {
		FriendshipID int64
		CreatedAt    time.Time
		profileRow
	}

	q := sqlf.From("friendships f").
		Join("accounts a", "a.account_id = f.requester_id").
		Where("f.addressee_id = ?", id).
		Where("f.status = ?", friendship.StatusPending).
		OrderBy("f.created_at DESC").
		Select("f.friendship_id").To(&tmp.FriendshipID).
		Select("f.created_at").To(&tmp.CreatedAt)
	tmp.profileRow.selectFrom(q, "a")

	var result []*friendship.Request
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, &friendship.Request{
			FriendshipID: friendship.ID(tmp.FriendshipID),
			From:         tmp.profileRow.toDomain(),
			SentAt:       tmp.CreatedAt,
		})
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, storage.InternalError(err)
	}
	return result, nil
}

func (s *PostgresStorage) SearchCandidates(
	ctx context.Context,
	query string,
	exclude friendship.AccountID,
	limit int,
) ([]*friendship.Profile, error) {
	var tmp profileRow

	pattern := pgutil.LikePattern(query)
	q := sqlf.From("accounts a").
		Where("a.account_id <> ?", exclude).
		Where("(a.display_name ILIKE ? OR a.email ILIKE ?)", pattern, pattern).
		OrderBy("a.display_name").
		Limit(limit)
	tmp.selectFrom(q, "a")

	var result []*friendship.Profile
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		p := tmp.toDomain()
		result = append(result, &p)
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, storage.InternalError(err)
	}
	return result, nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type friendshipRow struct {
	FriendshipID int64
	RequesterID  int64
	AddresseeID  int64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type profileRow struct {
	AccountID   int64
	DisplayName string
	Email       string
	Role        string
	AvatarURL   string
}

func (r *profileRow) selectFrom(q *sqlf.Stmt, alias string) {
	q.Select(alias + ".account_id").To(&r.AccountID).
		Select(alias + ".display_name").To(&r.DisplayName).
		Select(alias + ".email").To(&r.Email).
		Select(alias + ".role").To(&r.Role).
		Select(alias + ".avatar_url").To(&r.AvatarURL)
}

func (r *profileRow) toDomain() friendship.Profile {
	return friendship.Profile{
		AccountID:   friendship.AccountID(r.AccountID),
		DisplayName: r.DisplayName,
		Email:       r.Email,
		Role:        r.Role,
		AvatarURL:   r.AvatarURL,
	}
}
