package accountstorage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
)

const identityKey = "account_identities_pkey"

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

// Add inserts the account and links it to its external identity.
func (s *PostgresStorage) Add(ctx context.Context, a *account.Account) error {
	q := sqlf.InsertInto("accounts").
		Set("display_name", a.DisplayName).
		Set("email", a.Email).
		Set("role", a.Role).
		Set("avatar_url", a.AvatarURL).
		Set("created_at", a.CreatedAt).
		Set("updated_at", a.UpdatedAt).
		Returning("account_id").To(&a.AccountID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}

	link := sqlf.InsertInto("account_identities").
		Set("external_id", a.ExternalID).
		Set("account_id", a.AccountID).
		Set("linked_at", a.CreatedAt)

	if _, err := link.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, identityKey) {
			return account.ErrAlreadyLinked
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(a)
	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) (*account.Account, error) {
	var r accountRow

	q := sqlf.From("accounts a").
		LeftJoin("account_identities i", "i.account_id = a.account_id").
		Select("a.account_id").To(&r.AccountID).
		Select("i.external_id").To(&r.ExternalID).
		Select("a.display_name").To(&r.DisplayName).
		Select("a.email").To(&r.Email).
		Select("a.role").To(&r.Role).
		Select("a.avatar_url").To(&r.AvatarURL).
		Select("a.created_at").To(&r.CreatedAt).
		Select("a.updated_at").To(&r.UpdatedAt)

	q = modify(q)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, storage.InternalError(err)
	}

	return r.toDomain(), nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, id account.ID) (*account.Account, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("a.account_id = ?", id)
	})
}

func (s *PostgresStorage) GetByExternalID(ctx context.Context, id account.ExternalID) (*account.Account, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("i.external_id = ?", id)
	})
}

func (s *PostgresStorage) Persist(ctx context.Context, a *account.Account) error {
	dbState, err := s.GetByID(ctx, a.AccountID)
	if err != nil {
		return err
	}

	log, err := diff.Diff(dbState, a)
	if err != nil {
		panic(err) // should never happen
	}

	if len(log) != 0 {
		q := sqlf.Update("accounts").
			Where("account_id = ?", a.AccountID).
			Set("updated_at", a.UpdatedAt)
		q = pgutil.MakeUpdateQuery(q, log)

		res, err := q.ExecAndClose(ctx, s.base.DB)
		if err := pgutil.AssertUpdated(res, err, account.ErrAccountNotFound); err != nil {
			return err
		}
	}

	s.base.MarkSeen(a)
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type accountRow struct {
	AccountID   int64
	ExternalID  *string
	DisplayName string
	Email       string
	Role        string
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *accountRow) toDomain() *account.Account {
	a := &account.Account{
		AccountID:   account.ID(r.AccountID),
		DisplayName: r.DisplayName,
		Email:       r.Email,
		Role:        account.Role(r.Role),
		AvatarURL:   r.AvatarURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ExternalID != nil {
		a.ExternalID = account.ExternalID(*r.ExternalID)
	}
	return a
}
