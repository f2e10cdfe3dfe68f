package exercisestorage

import (
	"context"
	"database/sql"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
)

const lineItemExerciseFK = "workout_exercises_exercise_id_fkey"

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, e *workout.Exercise) error {
	q := sqlf.InsertInto("exercises").
		Set("name", e.Name).
		Set("description", e.Description).
		Returning("exercise_id").To(&e.ExerciseID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}
	s.base.MarkSeen(e)
	return nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, id workout.ExerciseID) (*workout.Exercise, error) {
	var e workout.Exercise

	q := sqlf.From("exercises").
		Select("exercise_id").To(&e.ExerciseID).
		Select("name").To(&e.Name).
		Select("description").To(&e.Description).
		Where("exercise_id = ?", id)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if pgutil.IsNoRows(err) {
			return nil, workout.ErrExerciseNotFound
		}
		return nil, storage.InternalError(err)
	}
	return &e, nil
}

func (s *PostgresStorage) List(ctx context.Context) ([]*workout.Exercise, error) {
	var tmp struct {
		ID          workout.ExerciseID
		Name        string
		Description string
	}

	q := sqlf.From("exercises").
		Select("exercise_id").To(&tmp.ID).
		Select("name").To(&tmp.Name).
		Select("description").To(&tmp.Description).
		OrderBy("name", "exercise_id")

	var result []*workout.Exercise
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, &workout.Exercise{
			ExerciseID:  tmp.ID,
			Name:        tmp.Name,
			Description: tmp.Description,
		})
	})
	if err != nil {
		return nil, storage.InternalError(err)
	}
	return result, nil
}

// Persist writes the fields of e that differ from the stored row.
func (s *PostgresStorage) Persist(ctx context.Context, e *workout.Exercise) error {
	dbState, err := s.GetByID(ctx, e.ExerciseID)
	if err != nil {
		return err
	}

	changes, err := diff.Diff(dbState, e)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	q := sqlf.Update("exercises").Where("exercise_id = ?", e.ExerciseID)
	q = pgutil.MakeUpdateQuery(q, changes)

	res, err := q.ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, workout.ErrExerciseNotFound); err != nil {
		return err
	}
	s.base.MarkSeen(e)
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, id workout.ExerciseID) error {
	q := sqlf.DeleteFrom("exercises").Where("exercise_id = ?", id)
	res, err := q.ExecAndClose(ctx, s.base.DB)
	if err != nil && pgutil.ViolatesConstraint(err, lineItemExerciseFK) {
		return workout.ErrExerciseInUse
	}
	return pgutil.AssertUpdated(res, err, workout.ErrExerciseNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}
