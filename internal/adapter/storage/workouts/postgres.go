package workoutstorage

import (
	"context"
	"database/sql"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
	"github.com/leporo/sqlf"
	"github.com/samber/lo"
)

var foreignKeys = map[string]error{
	"workouts_owner_id_fkey":             workout.ErrOwnerNotFound,
	"workout_exercises_exercise_id_fkey": workout.ErrExerciseNotFound,
	"workout_exercises_workout_id_fkey":  workout.ErrWorkoutNotFound,
	"assignments_workout_id_fkey":        workout.ErrWorkoutNotFound,
	"assignments_student_id_fkey":        workout.ErrStudentNotFound,
}

func mapError(err error) error {
	if constraint, ok := pgutil.ViolatesForeignKey(err); ok {
		if mapped, ok := foreignKeys[constraint]; ok {
			return mapped
		}
	}
	return storage.InternalError(err)
}

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

// Add inserts the workout and all of its line items.
func (s *PostgresStorage) Add(ctx context.Context, w *workout.Workout) error {
	q := sqlf.InsertInto("workouts").
		Set("owner_id", w.OwnerID).
		Set("name", w.Name).
		Set("description", w.Description).
		Set("created_at", w.CreatedAt).
		Returning("workout_id").To(&w.WorkoutID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return mapError(err)
	}

	if err := s.addLineItems(ctx, w.WorkoutID, w.LineItems); err != nil {
		return err
	}

	s.base.MarkSeen(w)
	return nil
}

func (s *PostgresStorage) addLineItems(ctx context.Context, id workout.ID, items []workout.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	var (
		exercises = make([]int64, len(items))
		positions = make([]int64, len(items))
		sets      = make([]int64, len(items))
		reps      = make([]int64, len(items))
		loads     = make([]float64, len(items))
	)
	for i, li := range items {
		exercises[i] = int64(li.ExerciseID)
		positions[i] = int64(i)
		sets[i] = int64(li.Sets)
		reps[i] = int64(li.Reps)
		loads[i] = li.Load
	}

	q := sqlf.New(`INSERT INTO workout_exercises (workout_id, exercise_id, position, sets, reps, load)
		SELECT ?, e, p, s, r, l
		FROM unnest(?::bigint[], ?::bigint[], ?::bigint[], ?::bigint[], ?::float8[]) AS t(e, p, s, r, l)`,
		id, exercises, positions, sets, reps, loads,
	)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, id workout.ID) (*workout.Workout, error) {
	var w workout.Workout

	q := sqlf.From("workouts").
		Select("workout_id").To(&w.WorkoutID).
		Select("owner_id").To(&w.OwnerID).
		Select("name").To(&w.Name).
		Select("description").To(&w.Description).
		Select("created_at").To(&w.CreatedAt).
		Where("workout_id = ?", id)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if pgutil.IsNoRows(err) {
			return nil, workout.ErrWorkoutNotFound
		}
		return nil, storage.InternalError(err)
	}

	var li workout.LineItem
	items := sqlf.From("workout_exercises").
		Select("exercise_id").To(&li.ExerciseID).
		Select("sets").To(&li.Sets).
		Select("reps").To(&li.Reps).
		Select("load").To(&li.Load).
		Where("workout_id = ?", id).
		OrderBy("position")

	err := items.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		w.LineItems = append(w.LineItems, li)
	})
	if err != nil {
		return nil, storage.InternalError(err)
	}

	s.base.MarkSeen(&w)
	return &w, nil
}

func (s *PostgresStorage) GetDetailed(ctx context.Context, id workout.ID) (*workout.Detailed, error) {
	list, err := s.listDetailed(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("w.workout_id = ?", id)
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, workout.ErrWorkoutNotFound
	}
	return list[0], nil
}

// ListByOwner returns the workouts owned by owner, newest first.
func (s *PostgresStorage) ListByOwner(ctx context.Context, owner workout.AccountID) ([]*workout.Detailed, error) {
	return s.listDetailed(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("w.owner_id = ?", owner).
			OrderBy("w.created_at DESC", "w.workout_id DESC")
	})
}

func (s *PostgresStorage) listDetailed(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) ([]*workout.Detailed, error) {
	var d workout.Detailed

	q := sqlf.From("workouts w").
		Select("w.workout_id").To(&d.WorkoutID).
		Select("w.owner_id").To(&d.OwnerID).
		Select("w.name").To(&d.Name).
		Select("w.description").To(&d.Description).
		Select("w.created_at").To(&d.CreatedAt)

	q = modify(q)

	var result []*workout.Detailed
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		item := d
		result = append(result, &item)
	})
	if err != nil {
		return nil, storage.InternalError(err)
	}

	ids := lo.Map(result, func(d *workout.Detailed, _ int) workout.ID {
		return d.WorkoutID
	})
	items, err := s.detailedItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range result {
		d.Items = items[d.WorkoutID]
	}
	return result, nil
}

// ListScheduled returns every assignment of student with its workout
// resolved.
func (s *PostgresStorage) ListScheduled(ctx context.Context, student workout.AccountID) ([]*workout.Scheduled, error) {
	var sc workout.Scheduled

	q := sqlf.From("assignments a").
		Join("workouts w", "w.workout_id = a.workout_id").
		Select("a.assignment_id").To(&sc.AssignmentID).
		Select("a.weekday").To(&sc.Weekday).
		Select("w.workout_id").To(&sc.Workout.WorkoutID).
		Select("w.owner_id").To(&sc.Workout.OwnerID).
		Select("w.name").To(&sc.Workout.Name).
		Select("w.description").To(&sc.Workout.Description).
		Select("w.created_at").To(&sc.Workout.CreatedAt).
		Where("a.student_id = ?", student).
		OrderBy("a.assignment_id")

	var result []*workout.Scheduled
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		item := sc
		result = append(result, &item)
	})
	if err != nil {
		return nil, storage.InternalError(err)
	}

	ids := lo.Uniq(lo.Map(result, func(sc *workout.Scheduled, _ int) workout.ID {
		return sc.Workout.WorkoutID
	}))
	items, err := s.detailedItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, sc := range result {
		sc.Workout.Items = append([]workout.DetailedItem(nil), items[sc.Workout.WorkoutID]...)
	}
	return result, nil
}

func (s *PostgresStorage) detailedItems(ctx context.Context, ids []workout.ID) (map[workout.ID][]workout.DetailedItem, error) {
	result := make(map[workout.ID][]workout.DetailedItem)
	if len(ids) == 0 {
		return result, nil
	}

	var (
		workoutID workout.ID
		item      workout.DetailedItem
	)

	raw := lo.Map(ids, func(id workout.ID, _ int) int64 { return int64(id) })
	q := sqlf.From("workout_exercises li").
		Join("exercises e", "e.exercise_id = li.exercise_id").
		Select("li.workout_id").To(&workoutID).
		Select("e.exercise_id").To(&item.ExerciseID).
		Select("e.name").To(&item.Name).
		Select("e.description").To(&item.Description).
		Select("li.sets").To(&item.Sets).
		Select("li.reps").To(&item.Reps).
		Select("li.load").To(&item.Load).
		Where("li.workout_id = ANY(?)", raw).
		OrderBy("li.workout_id", "li.position")

	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result[workoutID] = append(result[workoutID], item)
	})
	if err != nil {
		return nil, storage.InternalError(err)
	}
	return result, nil
}

func (s *PostgresStorage) AddAssignment(ctx context.Context, a *workout.Assignment) error {
	q := sqlf.InsertInto("assignments").
		Set("workout_id", a.WorkoutID).
		Set("student_id", a.StudentID).
		Set("weekday", a.Weekday).
		Set("created_at", a.CreatedAt).
		Returning("assignment_id").To(&a.AssignmentID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *PostgresStorage) DeleteLineItems(ctx context.Context, id workout.ID) error {
	q := sqlf.DeleteFrom("workout_exercises").Where("workout_id = ?", id)
	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) DeleteAssignments(ctx context.Context, id workout.ID) error {
	q := sqlf.DeleteFrom("assignments").Where("workout_id = ?", id)
	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, id workout.ID) error {
	q := sqlf.DeleteFrom("workouts").Where("workout_id = ?", id)
	res, err := q.ExecAndClose(ctx, s.base.DB)
	return pgutil.AssertUpdated(res, err, workout.ErrWorkoutNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}
