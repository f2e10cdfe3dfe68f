package goal

import (
	"fmt"
	"strings"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
)

var (
	ErrGoalNotFound  = fmt.Errorf("%w: goal", domain.ErrNotFound)
	ErrOwnerNotFound = fmt.Errorf("%w: goal owner", domain.ErrNotFound)
	ErrInvalidMetric = fmt.Errorf("%w: unknown goal metric", domain.ErrInvalidArgument)
	ErrInvalidTarget = fmt.Errorf("%w: target must be positive", domain.ErrInvalidArgument)
	ErrEmptyUnit     = fmt.Errorf("%w: unit is empty", domain.ErrInvalidArgument)
	ErrOutOfOrder    = fmt.Errorf("%w: entry is older than the last one", domain.ErrInvalidArgument)
)

const (
	EventProgressRecorded = "goal.progress_recorded"
)

type ID int64
type AccountID int64

type Metric string

const (
	MetricWeight           Metric = "weight"
	MetricWorkoutFrequency Metric = "workout_frequency"
	MetricMeasurements     Metric = "measurements"
	MetricMuscleMass       Metric = "muscle_mass"
)

func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricWeight, MetricWorkoutFrequency, MetricMeasurements, MetricMuscleMass:
		return m, nil
	default:
		return "", ErrInvalidMetric
	}
}

type Entry struct {
	RecordedAt time.Time
	Value      float64
}

// Goal keeps an append-only history. The current value is always the last
// entry of History.
type Goal struct {
	domain.Aggregate
	GoalID     ID
	OwnerID    AccountID
	Metric     Metric
	Target     float64
	Unit       string
	StartDate  time.Time
	TargetDate *time.Time
	History    []Entry
}

func New(
	owner AccountID,
	metric Metric,
	target float64,
	unit string,
	initial float64,
	targetDate *time.Time,
) (*Goal, error) {
	if target <= 0 {
		return nil, ErrInvalidTarget
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return nil, ErrEmptyUnit
	}
	now := time.Now().UTC()
	return &Goal{
		OwnerID:    owner,
		Metric:     metric,
		Target:     target,
		Unit:       unit,
		StartDate:  now,
		TargetDate: targetDate,
		History:    []Entry{{RecordedAt: now, Value: initial}},
	}, nil
}

func (g *Goal) Current() float64 {
	if len(g.History) == 0 {
		return 0
	}
	return g.History[len(g.History)-1].Value
}

// Progress is the completion percentage, capped at 100.
func (g *Goal) Progress() float64 {
	p := g.Current() / g.Target * 100
	if p > 100 {
		return 100
	}
	return p
}

func (g *Goal) Record(value float64, at time.Time) (Entry, error) {
	if n := len(g.History); n > 0 && at.Before(g.History[n-1].RecordedAt) {
		return Entry{}, ErrOutOfOrder
	}
	e := Entry{RecordedAt: at, Value: value}
	g.History = append(g.History, e)
	g.PushEvent(ProgressRecordedEvent{At: at, GoalID: g.GoalID, Value: value})
	return e, nil
}

type ProgressRecordedEvent struct {
	At     time.Time
	GoalID ID
	Value  float64
}

func (e ProgressRecordedEvent) Type() string {
	return EventProgressRecorded
}

func (e ProgressRecordedEvent) PublishedAt() time.Time {
	return e.At
}
