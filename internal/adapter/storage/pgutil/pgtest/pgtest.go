// Package pgtest runs Postgres storages against go-sqlmock.
package pgtest

import (
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/jackc/pgx/v5/pgconn"
)

// arrayConverter lets array arguments through the way the pgx driver does.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	switch v.(type) {
	case []int64, []float64, []string:
		return v, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

// NewTx opens a mocked transaction. Unmet expectations fail the test.
func NewTx(t *testing.T) (*storage.SQLTx, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(arrayConverter{}))
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectBegin()
	tx, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
		_ = db.Close()
	})
	return &storage.SQLTx{Tx: tx}, mock
}

// Violation builds the error Postgres reports for a broken constraint.
func Violation(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}
