package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/burenotti/go_training_backend/internal/domain"
)

var (
	ErrInternal = domain.ErrBackendUnavailable
	ErrTxDone   = sql.ErrTxDone
)

// Tx is a unit of storage work. Rollback after Commit returns ErrTxDone.
type Tx interface {
	Commit() error
	Rollback() error
}

type Beginner interface {
	Begin(ctx context.Context) (Tx, error)
}

// DBContext is a Tx backed by database/sql.
type DBContext interface {
	Tx
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DB struct {
	*sql.DB
}

func (D *DB) Begin(ctx context.Context) (Tx, error) {
	tx, err := D.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, InternalError(err)
	}
	return &SQLTx{tx}, nil
}

type SQLTx struct {
	*sql.Tx
}

func InternalError(err error) error {
	return errors.Join(fmt.Errorf("internal storage error: %w", err), ErrInternal)
}

// CommitOutcomeUnknown reports whether a failed commit may still have been
// applied by the server. This happens when the connection drops after COMMIT
// was sent. An expired or cancelled context stops database/sql before COMMIT
// is sent, so the transaction is known to be rolled back.
func CommitOutcomeUnknown(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &netErr)
}
