package pgutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{query: "ana", want: "%ana%"},
		{query: "", want: "%%"},
		{query: "50%", want: `%50\%%`},
		{query: "a_b", want: `%a\_b%`},
		{query: `c:\x`, want: `%c:\\x%`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := LikePattern(tt.query); got != tt.want {
				t.Errorf("LikePattern(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestViolatesConstraint(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "friendships_pair_key",
	})
	fk := &pgconn.PgError{
		Code:           pgerrcode.ForeignKeyViolation,
		ConstraintName: "workouts_owner_id_fkey",
	}

	if !ViolatesConstraint(unique, "friendships_pair_key") {
		t.Error("expected unique violation to match")
	}
	if ViolatesConstraint(unique, "other_key") {
		t.Error("constraint name must match")
	}
	if ViolatesConstraint(errors.New("plain"), "friendships_pair_key") {
		t.Error("plain errors are not violations")
	}

	name, ok := ViolatesForeignKey(fk)
	if !ok || name != "workouts_owner_id_fkey" {
		t.Errorf("expected foreign key violation, got %q %v", name, ok)
	}
	if _, ok := ViolatesForeignKey(unique); ok {
		t.Error("unique violation is not a foreign key violation")
	}
}

func TestStorageError(t *testing.T) {
	if StorageError(nil) != nil {
		t.Error("nil must stay nil")
	}
	err := StorageError(errors.New("connection reset"))
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Errorf("expected backend unavailable, got %v", err)
	}
	tagged := storage.InternalError(errors.New("x"))
	if StorageError(tagged) != tagged {
		t.Error("already tagged errors must not be wrapped twice")
	}
}

type row struct {
	Name        string `diff:"name"`
	Description string `diff:"description"`
}

func TestMakeUpdateQuery(t *testing.T) {
	changes, err := diff.Diff(row{Name: "Squat"}, row{Name: "Back Squat", Description: "bar on back"})
	if err != nil {
		t.Fatal(err)
	}

	stmt := MakeUpdateQuery(sqlf.Update("exercises"), changes).Where("exercise_id = ?", 1)
	defer stmt.Close()

	if got := len(stmt.Args()); got != 3 {
		t.Errorf("expected 3 args, got %d: %s", got, stmt.String())
	}
}
