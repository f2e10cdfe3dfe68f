package measurementstorage

import (
	"context"
	"database/sql"

	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/measurement"
	"github.com/leporo/sqlf"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, m *measurement.Measurement) error {
	q := sqlf.InsertInto("measurements").
		Set("student_id", m.StudentID).
		Set("trainer_id", m.TrainerID).
		Set("recorded_at", m.RecordedAt).
		Set("weight", m.Weight).
		Set("height", m.Height).
		Set("waist", m.Waist).
		Set("hip", m.Hip).
		Returning("measurement_id").To(&m.MeasurementID)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if _, ok := pgutil.ViolatesForeignKey(err); ok {
			return measurement.ErrStudentNotFound
		}
		return storage.InternalError(err)
	}
	s.base.MarkSeen(m)
	return nil
}

// ListByStudent returns the measurements of student, newest first.
func (s *PostgresStorage) ListByStudent(ctx context.Context, student measurement.AccountID) ([]*measurement.Measurement, error) {
	var r measurementRow

	q := sqlf.From("measurements").
		Select("measurement_id").To(&r.MeasurementID).
		Select("student_id").To(&r.StudentID).
		Select("trainer_id").To(&r.TrainerID).
		Select("recorded_at").To(&r.RecordedAt).
		Select("weight").To(&r.Weight).
		Select("height").To(&r.Height).
		Select("waist").To(&r.Waist).
		Select("hip").To(&r.Hip).
		Where("student_id = ?", student).
		OrderBy("recorded_at DESC", "measurement_id DESC")

	var result []*measurement.Measurement
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, r.toDomain())
	})
	if err != nil {
		return nil, storage.InternalError(err)
	}
	return result, nil
}

func (s *PostgresStorage) Delete(ctx context.Context, id measurement.ID) error {
	q := sqlf.DeleteFrom("measurements").Where("measurement_id = ?", id)
	res, err := q.ExecAndClose(ctx, s.base.DB)
	return pgutil.AssertUpdated(res, err, measurement.ErrMeasurementNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type measurementRow struct {
	MeasurementID int64
	StudentID     int64
	TrainerID     int64
	RecordedAt    sql.NullTime
	Weight        sql.NullFloat64
	Height        sql.NullFloat64
	Waist         sql.NullFloat64
	Hip           sql.NullFloat64
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func (r *measurementRow) toDomain() *measurement.Measurement {
	return &measurement.Measurement{
		MeasurementID: measurement.ID(r.MeasurementID),
		StudentID:     measurement.AccountID(r.StudentID),
		TrainerID:     measurement.AccountID(r.TrainerID),
		RecordedAt:    r.RecordedAt.Time,
		Weight:        nullable(r.Weight),
		Height:        nullable(r.Height),
		Waist:         nullable(r.Waist),
		Hip:           nullable(r.Hip),
	}
}
