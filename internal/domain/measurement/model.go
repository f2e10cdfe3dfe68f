package measurement

import (
	"fmt"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
)

var (
	ErrMeasurementNotFound = fmt.Errorf("%w: measurement", domain.ErrNotFound)
	ErrStudentNotFound     = fmt.Errorf("%w: student", domain.ErrNotFound)
	ErrEmptyMeasurement    = fmt.Errorf("%w: at least one value is required", domain.ErrInvalidArgument)
	ErrNegativeValue       = fmt.Errorf("%w: values must be positive", domain.ErrInvalidArgument)
)

type ID int64
type AccountID int64

// Measurement is a set of body measurements a trainer took for a student.
// Nil fields were not measured.
type Measurement struct {
	domain.Aggregate
	MeasurementID ID
	StudentID     AccountID
	TrainerID     AccountID
	RecordedAt    time.Time
	Weight        *float64
	Height        *float64
	Waist         *float64
	Hip           *float64
}

func New(studentID, trainerID AccountID, weight, height, waist, hip *float64) (*Measurement, error) {
	values := []*float64{weight, height, waist, hip}
	measured := false
	for _, v := range values {
		if v == nil {
			continue
		}
		if *v <= 0 {
			return nil, ErrNegativeValue
		}
		measured = true
	}
	if !measured {
		return nil, ErrEmptyMeasurement
	}

	return &Measurement{
		StudentID:  studentID,
		TrainerID:  trainerID,
		RecordedAt: time.Now().UTC(),
		Weight:     weight,
		Height:     height,
		Waist:      waist,
		Hip:        hip,
	}, nil
}
