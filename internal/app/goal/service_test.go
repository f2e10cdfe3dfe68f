package goalservice_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/storage/backend"
	goalservice "github.com/burenotti/go_training_backend/internal/app/goal"
	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	"github.com/burenotti/go_training_backend/internal/app/messagebus"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
)

type fixture struct {
	units  *backend.Units
	svc    *goalservice.Service
	owner  goal.AccountID
	events *eventLog
}

type eventLog struct {
	mu    sync.Mutex
	types []string
}

func (l *eventLog) handle(e domain.Event) error {
	l.mu.Lock()
	l.types = append(l.types, e.Type())
	l.mu.Unlock()
	return nil
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := messagebus.New(logger)
	events := &eventLog{}
	bus.Register(goal.EventProgressRecorded, events.handle)
	units := backend.NewUnits(backend.NewMemory(), bus, logger)

	a, err := identityapp.New(logger).Register(context.Background(), units.Identity, &account.Session{
		ExternalID: "student",
		Email:      "student@example.com",
	}, account.RoleStudent)
	if err != nil {
		t.Fatal(err)
	}

	return &fixture{
		units:  units,
		svc:    goalservice.New(logger),
		owner:  goal.AccountID(a.AccountID),
		events: events,
	}
}

func TestCreateGoal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	g, err := f.svc.CreateGoal(ctx, f.units.Goal, f.owner, goal.MetricWeight, 70, "kg", 82.5, &deadline)
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.GetGoal(ctx, f.units.Goal, g.GoalID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.History) != 1 || got.Current() != 82.5 {
		t.Errorf("history must start with the initial value, got %+v", got.History)
	}
	if got.TargetDate == nil || !got.TargetDate.Equal(deadline) {
		t.Errorf("unexpected target date %v", got.TargetDate)
	}
}

func TestCreateGoalValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		owner  goal.AccountID
		metric goal.Metric
		target float64
		err    error
	}{
		{name: "unknown metric", owner: f.owner, metric: "steps", target: 1, err: domain.ErrInvalidArgument},
		{name: "zero target", owner: f.owner, metric: goal.MetricMuscleMass, target: 0, err: domain.ErrInvalidArgument},
		{name: "unknown owner", owner: 999, metric: goal.MetricWeight, target: 1, err: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateGoal(ctx, f.units.Goal, tt.owner, tt.metric, tt.target, "kg", 0, nil)
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestRecordProgressAppends(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	g, err := f.svc.CreateGoal(ctx, f.units.Goal, f.owner, goal.MetricWorkoutFrequency, 5, "sessions/week", 1, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []float64{2, 4} {
		if _, err := f.svc.RecordProgress(ctx, f.units.Goal, g.GoalID, v); err != nil {
			t.Fatal(err)
		}
	}

	got, err := f.svc.GetGoal(ctx, f.units.Goal, g.GoalID)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2, 4}
	if len(got.History) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), got.History)
	}
	for i, e := range got.History {
		if e.Value != want[i] {
			t.Errorf("entry %d: expected %v, got %v", i, want[i], e.Value)
		}
		if i > 0 && e.RecordedAt.Before(got.History[i-1].RecordedAt) {
			t.Errorf("entry %d is older than the previous one", i)
		}
	}
	if got.Current() != 4 || got.Progress() != 80 {
		t.Errorf("expected current 4 and 80%% progress, got %v and %v", got.Current(), got.Progress())
	}

	if _, err := f.svc.RecordProgress(ctx, f.units.Goal, 999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRecordProgressPublishesEvent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	g, err := f.svc.CreateGoal(ctx, f.units.Goal, f.owner, goal.MetricWeight, 70, "kg", 80, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RecordProgress(ctx, f.units.Goal, g.GoalID, 79); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.events.mu.Lock()
		n := len(f.events.types)
		f.events.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("expected one progress recorded event")
}

func TestListAndDeleteGoals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	weight, err := f.svc.CreateGoal(ctx, f.units.Goal, f.owner, goal.MetricWeight, 70, "kg", 80, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CreateGoal(ctx, f.units.Goal, f.owner, goal.MetricMeasurements, 90, "cm", 100, nil); err != nil {
		t.Fatal(err)
	}

	goals, err := f.svc.ListGoals(ctx, f.units.Goal, f.owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}

	if err := f.svc.DeleteGoal(ctx, f.units.Goal, weight.GoalID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.GetGoal(ctx, f.units.Goal, weight.GoalID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected deleted goal to be gone, got %v", err)
	}
	if err := f.svc.DeleteGoal(ctx, f.units.Goal, weight.GoalID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}

	goals, err = f.svc.ListGoals(ctx, f.units.Goal, f.owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 1 {
		t.Errorf("expected 1 goal after delete, got %d", len(goals))
	}
}
