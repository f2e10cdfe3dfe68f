package accountstorage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	accountstorage "github.com/burenotti/go_training_backend/internal/adapter/storage/accounts"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil/pgtest"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/jackc/pgerrcode"
)

func newAccount() *account.Account {
	a := account.Synthesize(account.Session{ExternalID: "ext-1", Email: "ana@example.com", Name: "Ana"})
	a.Register(account.RoleStudent)
	return a
}

func TestAddLinksIdentity(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := accountstorage.NewPostgresStorage(tx)
	a := newAccount()

	mock.ExpectQuery(`INSERT INTO accounts .* RETURNING account_id`).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(5))
	mock.ExpectExec(`INSERT INTO account_identities`).
		WithArgs("ext-1", int64(5), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Add(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if a.AccountID != 5 {
		t.Errorf("expected id 5, got %d", a.AccountID)
	}
}

func TestAddAlreadyLinked(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := accountstorage.NewPostgresStorage(tx)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(5))
	mock.ExpectExec(`INSERT INTO account_identities`).
		WillReturnError(pgtest.Violation(pgerrcode.UniqueViolation, "account_identities_pkey"))

	if err := s.Add(context.Background(), newAccount()); !errors.Is(err, account.ErrAlreadyLinked) {
		t.Errorf("expected already linked, got %v", err)
	}
}
