package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
)

type exerciseRecord struct {
	ExerciseID  workout.ExerciseID
	Name        string
	Description string
}

func (r exerciseRecord) toDomain() *workout.Exercise {
	return &workout.Exercise{
		ExerciseID:  r.ExerciseID,
		Name:        r.Name,
		Description: r.Description,
	}
}

type ExerciseStorage struct {
	domain.Tracker
	tx *Tx
}

func NewExerciseStorage(tx *Tx) *ExerciseStorage {
	return &ExerciseStorage{tx: tx}
}

func (s *ExerciseStorage) Add(ctx context.Context, e *workout.Exercise) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	e.ExerciseID = workout.ExerciseID(t.next("exercises"))
	t.exercises[e.ExerciseID] = exerciseRecord{
		ExerciseID:  e.ExerciseID,
		Name:        e.Name,
		Description: e.Description,
	}
	s.MarkSeen(e)
	return nil
}

func (s *ExerciseStorage) GetByID(ctx context.Context, id workout.ExerciseID) (*workout.Exercise, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := t.exercises[id]
	if !ok {
		return nil, workout.ErrExerciseNotFound
	}
	return r.toDomain(), nil
}

func (s *ExerciseStorage) List(ctx context.Context) ([]*workout.Exercise, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*workout.Exercise, 0, len(t.exercises))
	for _, r := range t.exercises {
		result = append(result, r.toDomain())
	}
	slices.SortFunc(result, func(a, b *workout.Exercise) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ExerciseID, b.ExerciseID),
		)
	})
	return result, nil
}

func (s *ExerciseStorage) Persist(ctx context.Context, e *workout.Exercise) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.exercises[e.ExerciseID]; !ok {
		return workout.ErrExerciseNotFound
	}
	t.exercises[e.ExerciseID] = exerciseRecord{
		ExerciseID:  e.ExerciseID,
		Name:        e.Name,
		Description: e.Description,
	}
	s.MarkSeen(e)
	return nil
}

func (s *ExerciseStorage) Delete(ctx context.Context, id workout.ExerciseID) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.exercises[id]; !ok {
		return workout.ErrExerciseNotFound
	}
	for _, items := range t.lineItems {
		for _, li := range items {
			if li.ExerciseID == id {
				return workout.ErrExerciseInUse
			}
		}
	}
	delete(t.exercises, id)
	return nil
}

func (s *ExerciseStorage) Close() error {
	s.Clear()
	return nil
}
