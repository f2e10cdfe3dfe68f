package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
)

type workoutRecord struct {
	WorkoutID   workout.ID
	OwnerID     workout.AccountID
	Name        string
	Description string
	CreatedAt   time.Time
}

type WorkoutStorage struct {
	domain.Tracker
	tx *Tx
}

func NewWorkoutStorage(tx *Tx) *WorkoutStorage {
	return &WorkoutStorage{tx: tx}
}

// Add inserts the workout and all of its line items.
func (s *WorkoutStorage) Add(ctx context.Context, w *workout.Workout) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.accounts[account.ID(w.OwnerID)]; !ok {
		return workout.ErrOwnerNotFound
	}
	for _, li := range w.LineItems {
		if _, ok := t.exercises[li.ExerciseID]; !ok {
			return workout.ErrExerciseNotFound
		}
	}

	w.WorkoutID = workout.ID(t.next("workouts"))
	t.workouts[w.WorkoutID] = workoutRecord{
		WorkoutID:   w.WorkoutID,
		OwnerID:     w.OwnerID,
		Name:        w.Name,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
	}
	if len(w.LineItems) > 0 {
		t.lineItems[w.WorkoutID] = append([]workout.LineItem(nil), w.LineItems...)
	}

	s.MarkSeen(w)
	return nil
}

func (s *WorkoutStorage) GetByID(ctx context.Context, id workout.ID) (*workout.Workout, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := t.workouts[id]
	if !ok {
		return nil, workout.ErrWorkoutNotFound
	}

	w := &workout.Workout{
		WorkoutID:   r.WorkoutID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		LineItems:   append([]workout.LineItem(nil), t.lineItems[id]...),
		CreatedAt:   r.CreatedAt,
	}
	s.MarkSeen(w)
	return w, nil
}

func detailed(t *tables, r workoutRecord) workout.Detailed {
	d := workout.Detailed{
		WorkoutID:   r.WorkoutID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
	for _, li := range t.lineItems[r.WorkoutID] {
		e := t.exercises[li.ExerciseID]
		d.Items = append(d.Items, workout.DetailedItem{
			ExerciseID:  li.ExerciseID,
			Name:        e.Name,
			Description: e.Description,
			Sets:        li.Sets,
			Reps:        li.Reps,
			Load:        li.Load,
		})
	}
	return d
}

func (s *WorkoutStorage) GetDetailed(ctx context.Context, id workout.ID) (*workout.Detailed, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := t.workouts[id]
	if !ok {
		return nil, workout.ErrWorkoutNotFound
	}
	d := detailed(t, r)
	return &d, nil
}

func (s *WorkoutStorage) ListByOwner(ctx context.Context, owner workout.AccountID) ([]*workout.Detailed, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}

	var result []*workout.Detailed
	for _, r := range t.workouts {
		if r.OwnerID != owner {
			continue
		}
		d := detailed(t, r)
		result = append(result, &d)
	}

	slices.SortFunc(result, func(a, b *workout.Detailed) int {
		return cmp.Or(
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(b.WorkoutID, a.WorkoutID),
		)
	})
	return result, nil
}

func (s *WorkoutStorage) ListScheduled(ctx context.Context, student workout.AccountID) ([]*workout.Scheduled, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}

	var result []*workout.Scheduled
	for _, a := range t.assignments {
		if a.StudentID != student {
			continue
		}
		r, ok := t.workouts[a.WorkoutID]
		if !ok {
			continue
		}
		result = append(result, &workout.Scheduled{
			AssignmentID: a.AssignmentID,
			Weekday:      a.Weekday,
			Workout:      detailed(t, r),
		})
	}

	slices.SortFunc(result, func(a, b *workout.Scheduled) int {
		return cmp.Compare(a.AssignmentID, b.AssignmentID)
	})
	return result, nil
}

func (s *WorkoutStorage) AddAssignment(ctx context.Context, a *workout.Assignment) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.workouts[a.WorkoutID]; !ok {
		return workout.ErrWorkoutNotFound
	}
	if _, ok := t.accounts[account.ID(a.StudentID)]; !ok {
		return workout.ErrStudentNotFound
	}

	a.AssignmentID = workout.AssignmentID(t.next("assignments"))
	t.assignments[a.AssignmentID] = *a
	return nil
}

func (s *WorkoutStorage) DeleteLineItems(ctx context.Context, id workout.ID) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	delete(t.lineItems, id)
	return nil
}

func (s *WorkoutStorage) DeleteAssignments(ctx context.Context, id workout.ID) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	for aid, a := range t.assignments {
		if a.WorkoutID == id {
			delete(t.assignments, aid)
		}
	}
	return nil
}

// Delete removes the workout row. Like the foreign keys of the SQL schema it
// refuses to orphan line items or assignments.
func (s *WorkoutStorage) Delete(ctx context.Context, id workout.ID) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.workouts[id]; !ok {
		return workout.ErrWorkoutNotFound
	}
	if len(t.lineItems[id]) > 0 {
		return storage.InternalError(fmt.Errorf("workout %d still has line items", id))
	}
	for _, a := range t.assignments {
		if a.WorkoutID == id {
			return storage.InternalError(fmt.Errorf("workout %d still has assignments", id))
		}
	}
	delete(t.workouts, id)
	return nil
}

func (s *WorkoutStorage) Close() error {
	s.Clear()
	return nil
}
