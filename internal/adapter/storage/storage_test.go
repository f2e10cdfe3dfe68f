package storage_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
)

func TestCommitOutcomeUnknown(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "bad connection", err: driver.ErrBadConn, want: true},
		{name: "unexpected eof", err: fmt.Errorf("read: %w", io.ErrUnexpectedEOF), want: true},
		{name: "network", err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}, want: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "wrapped deadline", err: fmt.Errorf("commit: %w", context.DeadlineExceeded), want: false},
		{name: "cancelled", err: context.Canceled, want: false},
		{name: "rejected", err: errors.New("could not serialize access"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.CommitOutcomeUnknown(tt.err); got != tt.want {
				t.Errorf("CommitOutcomeUnknown(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
