// Package memstore keeps every table in process memory. Transactions are
// serialized: Begin takes a store-wide lock and hands out a private copy of
// the tables, Commit swaps that copy in and Rollback drops it.
package memstore

import (
	"context"
	"maps"
	"sync"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/friendship"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
	"github.com/burenotti/go_training_backend/internal/domain/measurement"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
)

type tables struct {
	seq          map[string]int64
	accounts     map[account.ID]accountRecord
	identities   map[account.ExternalID]account.ID
	friendships  map[friendship.ID]friendshipRecord
	exercises    map[workout.ExerciseID]exerciseRecord
	workouts     map[workout.ID]workoutRecord
	lineItems    map[workout.ID][]workout.LineItem
	assignments  map[workout.AssignmentID]workout.Assignment
	goals        map[goal.ID]goalRecord
	entries      map[goal.ID][]goal.Entry
	measurements map[measurement.ID]measurementRecord
}

func newTables() *tables {
	return &tables{
		seq:          make(map[string]int64),
		accounts:     make(map[account.ID]accountRecord),
		identities:   make(map[account.ExternalID]account.ID),
		friendships:  make(map[friendship.ID]friendshipRecord),
		exercises:    make(map[workout.ExerciseID]exerciseRecord),
		workouts:     make(map[workout.ID]workoutRecord),
		lineItems:    make(map[workout.ID][]workout.LineItem),
		assignments:  make(map[workout.AssignmentID]workout.Assignment),
		goals:        make(map[goal.ID]goalRecord),
		entries:      make(map[goal.ID][]goal.Entry),
		measurements: make(map[measurement.ID]measurementRecord),
	}
}

func cloneSlices[K comparable, V any](m map[K][]V) map[K][]V {
	result := make(map[K][]V, len(m))
	for k, v := range m {
		result[k] = append([]V(nil), v...)
	}
	return result
}

func (t *tables) clone() *tables {
	return &tables{
		seq:          maps.Clone(t.seq),
		accounts:     maps.Clone(t.accounts),
		identities:   maps.Clone(t.identities),
		friendships:  maps.Clone(t.friendships),
		exercises:    maps.Clone(t.exercises),
		workouts:     maps.Clone(t.workouts),
		lineItems:    cloneSlices(t.lineItems),
		assignments:  maps.Clone(t.assignments),
		goals:        maps.Clone(t.goals),
		entries:      cloneSlices(t.entries),
		measurements: maps.Clone(t.measurements),
	}
}

// next returns the next value of the named sequence. Sequences start at 1.
func (t *tables) next(name string) int64 {
	t.seq[name]++
	return t.seq[name]
}

type Store struct {
	sem  chan struct{}
	data *tables

	faultMu sync.Mutex
	fault   error
}

func New() *Store {
	return &Store{
		sem:  make(chan struct{}, 1),
		data: newTables(),
	}
}

// Begin waits for the running transaction to finish or for ctx to be done.
func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	return s.BeginTx(ctx)
}

func (s *Store) BeginTx(ctx context.Context) (*Tx, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, storage.InternalError(ctx.Err())
	}
	return &Tx{store: s, data: s.data.clone()}, nil
}

// FailNextCommit makes the next commit return err without applying the
// transaction.
func (s *Store) FailNextCommit(err error) {
	s.faultMu.Lock()
	s.fault = err
	s.faultMu.Unlock()
}

func (s *Store) takeFault() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	err := s.fault
	s.fault = nil
	return err
}

type Tx struct {
	store *Store
	data  *tables
	done  bool
}

func (tx *Tx) tables(ctx context.Context) (*tables, error) {
	if tx.done {
		return nil, storage.InternalError(storage.ErrTxDone)
	}
	if err := ctx.Err(); err != nil {
		return nil, storage.InternalError(err)
	}
	return tx.data, nil
}

func (tx *Tx) Commit() error {
	if tx.done {
		return storage.ErrTxDone
	}
	tx.done = true
	defer tx.release()

	if err := tx.store.takeFault(); err != nil {
		return err
	}
	tx.store.data = tx.data
	return nil
}

func (tx *Tx) Rollback() error {
	if tx.done {
		return storage.ErrTxDone
	}
	tx.done = true
	tx.release()
	return nil
}

func (tx *Tx) release() {
	tx.data = nil
	<-tx.store.sem
}
