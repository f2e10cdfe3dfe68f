package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/measurement"
)

type measurementRecord struct {
	MeasurementID measurement.ID
	StudentID     measurement.AccountID
	TrainerID     measurement.AccountID
	RecordedAt    time.Time
	Weight        *float64
	Height        *float64
	Waist         *float64
	Hip           *float64
}

func copyValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (r measurementRecord) toDomain() *measurement.Measurement {
	return &measurement.Measurement{
		MeasurementID: r.MeasurementID,
		StudentID:     r.StudentID,
		TrainerID:     r.TrainerID,
		RecordedAt:    r.RecordedAt,
		Weight:        copyValue(r.Weight),
		Height:        copyValue(r.Height),
		Waist:         copyValue(r.Waist),
		Hip:           copyValue(r.Hip),
	}
}

type MeasurementStorage struct {
	domain.Tracker
	tx *Tx
}

func NewMeasurementStorage(tx *Tx) *MeasurementStorage {
	return &MeasurementStorage{tx: tx}
}

func (s *MeasurementStorage) Add(ctx context.Context, m *measurement.Measurement) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.accounts[account.ID(m.StudentID)]; !ok {
		return measurement.ErrStudentNotFound
	}
	if _, ok := t.accounts[account.ID(m.TrainerID)]; !ok {
		return measurement.ErrStudentNotFound
	}

	m.MeasurementID = measurement.ID(t.next("measurements"))
	t.measurements[m.MeasurementID] = measurementRecord{
		MeasurementID: m.MeasurementID,
		StudentID:     m.StudentID,
		TrainerID:     m.TrainerID,
		RecordedAt:    m.RecordedAt,
		Weight:        copyValue(m.Weight),
		Height:        copyValue(m.Height),
		Waist:         copyValue(m.Waist),
		Hip:           copyValue(m.Hip),
	}
	s.MarkSeen(m)
	return nil
}

func (s *MeasurementStorage) ListByStudent(ctx context.Context, student measurement.AccountID) ([]*measurement.Measurement, error) {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return nil, err
	}

	var result []*measurement.Measurement
	for _, r := range t.measurements {
		if r.StudentID == student {
			result = append(result, r.toDomain())
		}
	}
	slices.SortFunc(result, func(a, b *measurement.Measurement) int {
		return cmp.Or(
			b.RecordedAt.Compare(a.RecordedAt),
			cmp.Compare(b.MeasurementID, a.MeasurementID),
		)
	})
	return result, nil
}

func (s *MeasurementStorage) Delete(ctx context.Context, id measurement.ID) error {
	t, err := s.tx.tables(ctx)
	if err != nil {
		return err
	}
	if _, ok := t.measurements[id]; !ok {
		return measurement.ErrMeasurementNotFound
	}
	delete(t.measurements, id)
	return nil
}

func (s *MeasurementStorage) Close() error {
	s.Clear()
	return nil
}
