package workout

import (
	"fmt"
	"strings"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain"
)

var (
	ErrWorkoutNotFound  = fmt.Errorf("%w: workout", domain.ErrNotFound)
	ErrExerciseNotFound = fmt.Errorf("%w: exercise", domain.ErrNotFound)
	ErrStudentNotFound  = fmt.Errorf("%w: student", domain.ErrNotFound)
	ErrOwnerNotFound    = fmt.Errorf("%w: workout owner", domain.ErrNotFound)
	ErrEmptyName        = fmt.Errorf("%w: name is empty", domain.ErrInvalidArgument)
	ErrInvalidLineItem  = fmt.Errorf("%w: sets and reps must be positive and load non-negative", domain.ErrInvalidArgument)
	ErrInvalidWeekday   = fmt.Errorf("%w: weekday must be one of Mon..Sun", domain.ErrInvalidArgument)
	ErrExerciseInUse    = fmt.Errorf("%w: exercise is referenced by a workout", domain.ErrInvalidArgument)
	ErrNotOwner         = fmt.Errorf("%w: workout belongs to another trainer", domain.ErrForbidden)
)

const (
	EventCreated  = "workout.created"
	EventAssigned = "workout.assigned"
	EventShared   = "workout.shared"
	EventDeleted  = "workout.deleted"
)

type ID int64
type ExerciseID int64
type AccountID int64
type AssignmentID int64

type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"

	// WeekdayShared marks assignments created by sharing rather than by
	// scheduling.
	WeekdayShared Weekday = "shared"
)

func ParseWeekday(s string) (Weekday, error) {
	switch d := Weekday(s); d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return d, nil
	default:
		return "", ErrInvalidWeekday
	}
}

type Exercise struct {
	domain.Aggregate `diff:"-"`
	ExerciseID       ExerciseID `diff:"-"`
	Name             string     `diff:"name"`
	Description      string     `diff:"description"`
}

func NewExercise(name, description string) (*Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Exercise{Name: name, Description: description}, nil
}

func (e *Exercise) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	e.Name = name
	e.Description = description
	return nil
}

// LineItem is one exercise of a workout with its workout specific
// parameters.
type LineItem struct {
	ExerciseID ExerciseID
	Sets       int
	Reps       int
	Load       float64
}

func (li LineItem) Validate() error {
	if li.Sets <= 0 || li.Reps <= 0 || li.Load < 0 {
		return ErrInvalidLineItem
	}
	return nil
}

type Workout struct {
	domain.Aggregate
	WorkoutID   ID
	OwnerID     AccountID
	Name        string
	Description string
	LineItems   []LineItem
	CreatedAt   time.Time
}

func New(owner AccountID, name, description string, items []LineItem) (*Workout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return nil, err
		}
	}
	w := &Workout{
		OwnerID:     owner,
		Name:        name,
		Description: description,
		LineItems:   append([]LineItem(nil), items...),
		CreatedAt:   time.Now().UTC(),
	}
	return w, nil
}

// Created records the creation event once the workout has an id.
func (w *Workout) Created() {
	w.PushEvent(CreatedEvent{At: w.CreatedAt, WorkoutID: w.WorkoutID, OwnerID: w.OwnerID})
}

// SharedCopy returns an unsaved deep copy named with the given suffix. The
// copy keeps the owner and line items of w but shares nothing with it.
func (w *Workout) SharedCopy(suffix string) *Workout {
	return &Workout{
		OwnerID:     w.OwnerID,
		Name:        w.Name + suffix,
		Description: w.Description,
		LineItems:   append([]LineItem(nil), w.LineItems...),
		CreatedAt:   time.Now().UTC(),
	}
}

type Assignment struct {
	AssignmentID AssignmentID
	WorkoutID    ID
	StudentID    AccountID
	Weekday      Weekday
	CreatedAt    time.Time
}

func NewAssignment(workoutID ID, studentID AccountID, weekday Weekday) *Assignment {
	return &Assignment{
		WorkoutID: workoutID,
		StudentID: studentID,
		Weekday:   weekday,
		CreatedAt: time.Now().UTC(),
	}
}

// DetailedItem is a line item with its exercise resolved.
type DetailedItem struct {
	ExerciseID  ExerciseID
	Name        string
	Description string
	Sets        int
	Reps        int
	Load        float64
}

// Detailed is a workout with every line item resolved against the exercise
// catalog.
type Detailed struct {
	WorkoutID   ID
	OwnerID     AccountID
	Name        string
	Description string
	Items       []DetailedItem
	CreatedAt   time.Time
}

// Scheduled is a workout as it appears on a student's schedule.
type Scheduled struct {
	AssignmentID AssignmentID
	Weekday      Weekday
	Workout      Detailed
}

func (s Scheduled) Shared() bool {
	return s.Weekday == WeekdayShared
}

type CreatedEvent struct {
	At        time.Time
	WorkoutID ID
	OwnerID   AccountID
}

func (e CreatedEvent) Type() string {
	return EventCreated
}

func (e CreatedEvent) PublishedAt() time.Time {
	return e.At
}

type AssignedEvent struct {
	At           time.Time
	AssignmentID AssignmentID
	WorkoutID    ID
	StudentID    AccountID
	Weekday      Weekday
}

func (e AssignedEvent) Type() string {
	return EventAssigned
}

func (e AssignedEvent) PublishedAt() time.Time {
	return e.At
}

type SharedEvent struct {
	At           time.Time
	SourceID     ID
	CopyID       ID
	RecipientID  AccountID
	AssignmentID AssignmentID
	LineItems    int
}

func (e SharedEvent) Type() string {
	return EventShared
}

func (e SharedEvent) PublishedAt() time.Time {
	return e.At
}

type DeletedEvent struct {
	At        time.Time
	WorkoutID ID
}

func (e DeletedEvent) Type() string {
	return EventDeleted
}

func (e DeletedEvent) PublishedAt() time.Time {
	return e.At
}
