package workoutstorage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil/pgtest"
	workoutstorage "github.com/burenotti/go_training_backend/internal/adapter/storage/workouts"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
	"github.com/jackc/pgerrcode"
)

func legDay() *workout.Workout {
	return &workout.Workout{
		OwnerID: 1,
		Name:    "Leg Day",
		LineItems: []workout.LineItem{
			{ExerciseID: 3, Sets: 4, Reps: 12, Load: 60},
			{ExerciseID: 5, Sets: 3, Reps: 10},
		},
		CreatedAt: time.Now(),
	}
}

func TestAddInsertsLineItemsInBulk(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := workoutstorage.NewPostgresStorage(tx)
	w := legDay()

	mock.ExpectQuery(`INSERT INTO workouts .* RETURNING workout_id`).
		WithArgs(int64(1), "Leg Day", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"workout_id"}).AddRow(42))
	mock.ExpectExec(`INSERT INTO workout_exercises .* FROM unnest\(`).
		WithArgs(
			int64(42),
			[]int64{3, 5},
			[]int64{0, 1},
			[]int64{4, 3},
			[]int64{12, 10},
			[]float64{60, 0},
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := s.Add(context.Background(), w); err != nil {
		t.Fatal(err)
	}
	if w.WorkoutID != 42 {
		t.Errorf("expected id 42, got %d", w.WorkoutID)
	}
}

func TestAddWithoutLineItems(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := workoutstorage.NewPostgresStorage(tx)
	w := legDay()
	w.LineItems = nil

	mock.ExpectQuery(`INSERT INTO workouts`).
		WillReturnRows(sqlmock.NewRows([]string{"workout_id"}).AddRow(43))

	if err := s.Add(context.Background(), w); err != nil {
		t.Fatal(err)
	}
}

func TestAddMapsForeignKeys(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "unknown exercise", constraint: "workout_exercises_exercise_id_fkey", want: workout.ErrExerciseNotFound},
		{name: "workout gone", constraint: "workout_exercises_workout_id_fkey", want: workout.ErrWorkoutNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, mock := pgtest.NewTx(t)
			s := workoutstorage.NewPostgresStorage(tx)

			mock.ExpectQuery(`INSERT INTO workouts`).
				WillReturnRows(sqlmock.NewRows([]string{"workout_id"}).AddRow(42))
			mock.ExpectExec(`INSERT INTO workout_exercises`).
				WillReturnError(pgtest.Violation(pgerrcode.ForeignKeyViolation, tt.constraint))

			if err := s.Add(context.Background(), legDay()); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAddAssignmentUnknownStudent(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := workoutstorage.NewPostgresStorage(tx)

	mock.ExpectQuery(`INSERT INTO assignments`).
		WithArgs(int64(42), int64(9), "shared", sqlmock.AnyArg()).
		WillReturnError(pgtest.Violation(pgerrcode.ForeignKeyViolation, "assignments_student_id_fkey"))

	a := &workout.Assignment{WorkoutID: 42, StudentID: 9, Weekday: workout.WeekdayShared, CreatedAt: time.Now()}
	if err := s.AddAssignment(context.Background(), a); !errors.Is(err, workout.ErrStudentNotFound) {
		t.Errorf("expected student not found, got %v", err)
	}
}

func TestGetDetailedJoinsExercises(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := workoutstorage.NewPostgresStorage(tx)
	now := time.Now()

	mock.ExpectQuery(`FROM workouts w WHERE w\.workout_id = \?`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"workout_id", "owner_id", "name", "description", "created_at"}).
			AddRow(42, 1, "Leg Day", "", now))
	mock.ExpectQuery(`FROM workout_exercises li JOIN exercises e ON .* WHERE li\.workout_id = ANY\(\?\)`).
		WithArgs([]int64{42}).
		WillReturnRows(sqlmock.NewRows([]string{"workout_id", "exercise_id", "name", "description", "sets", "reps", "load"}).
			AddRow(42, 3, "Squat", "", 4, 12, 60.0).
			AddRow(42, 5, "Lunge", "", 3, 10, 0.0))

	d, err := s.GetDetailed(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", d.Items)
	}
	if d.Items[0].Name != "Squat" || d.Items[0].Load != 60 || d.Items[1].Name != "Lunge" || d.Items[1].Sets != 3 {
		t.Errorf("unexpected items %+v", d.Items)
	}
}

func TestGetDetailedMissing(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := workoutstorage.NewPostgresStorage(tx)

	mock.ExpectQuery(`FROM workouts w`).
		WillReturnRows(sqlmock.NewRows([]string{"workout_id", "owner_id", "name", "description", "created_at"}))

	if _, err := s.GetDetailed(context.Background(), 42); !errors.Is(err, workout.ErrWorkoutNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	tx, mock := pgtest.NewTx(t)
	s := workoutstorage.NewPostgresStorage(tx)

	mock.ExpectExec(`DELETE FROM workouts WHERE workout_id = \?`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.Delete(context.Background(), 42); !errors.Is(err, workout.ErrWorkoutNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
