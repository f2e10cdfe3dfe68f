package goal

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		unit   string
		err    error
	}{
		{name: "valid", target: 70, unit: "kg"},
		{name: "zero target", target: 0, unit: "kg", err: ErrInvalidTarget},
		{name: "blank unit", target: 70, unit: "  ", err: ErrEmptyUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(1, MetricWeight, tt.target, tt.unit, 80, nil)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if err != nil {
				return
			}
			if len(g.History) != 1 || g.Current() != 80 {
				t.Errorf("history must start with the initial value, got %+v", g.History)
			}
		})
	}
}

func TestParseMetric(t *testing.T) {
	for _, m := range []string{"weight", "workout_frequency", "measurements", "muscle_mass"} {
		if _, err := ParseMetric(m); err != nil {
			t.Errorf("ParseMetric(%q): %v", m, err)
		}
	}
	if _, err := ParseMetric("steps"); !errors.Is(err, ErrInvalidMetric) {
		t.Errorf("expected ErrInvalidMetric, got %v", err)
	}
}

func TestRecordAppends(t *testing.T) {
	g, err := New(1, MetricWorkoutFrequency, 4, "sessions/week", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	start := g.History[0].RecordedAt

	for i, v := range []float64{2, 3} {
		if _, err := g.Record(v, start.Add(time.Duration(i+1)*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}

	if len(g.History) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(g.History))
	}
	if g.History[0].Value != 1 {
		t.Errorf("earlier entries must not change, got %v", g.History[0].Value)
	}
	if g.Current() != 3 {
		t.Errorf("current must be the last entry, got %v", g.Current())
	}
	if got := g.Progress(); got != 75 {
		t.Errorf("expected 75%% progress, got %v", got)
	}
	if events := g.PopEvents(); len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}

	if _, err := g.Record(5, start.Add(-time.Hour)); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("expected ErrOutOfOrder, got %v", err)
	}
	if len(g.History) != 3 {
		t.Error("rejected entry must not be appended")
	}
}

func TestProgressCapped(t *testing.T) {
	g := &Goal{Target: 10, History: []Entry{{Value: 25}}}
	if got := g.Progress(); got != 100 {
		t.Errorf("expected progress capped at 100, got %v", got)
	}
}
