package workout

import (
	"errors"
	"testing"
)

func TestSharedSuffix(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "pt-BR", want: " (Compartilhado)"},
		{locale: "pt", want: " (Compartilhado)"},
		{locale: "en-US", want: " (Shared)"},
		{locale: "", want: " (Shared)"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := SharedSuffix(tt.locale); got != tt.want {
				t.Errorf("SharedSuffix(%q) = %q, want %q", tt.locale, got, tt.want)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	for _, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		if _, err := ParseWeekday(d); err != nil {
			t.Errorf("ParseWeekday(%q): %v", d, err)
		}
	}
	for _, d := range []string{"shared", "monday", ""} {
		if _, err := ParseWeekday(d); !errors.Is(err, ErrInvalidWeekday) {
			t.Errorf("ParseWeekday(%q): expected ErrInvalidWeekday, got %v", d, err)
		}
	}
}

func TestNewValidatesLineItems(t *testing.T) {
	tests := []struct {
		name  string
		title string
		items []LineItem
		err   error
	}{
		{name: "valid", title: "Leg Day", items: []LineItem{{ExerciseID: 1, Sets: 4, Reps: 12}}},
		{name: "blank name", title: " ", err: ErrEmptyName},
		{name: "zero sets", title: "A", items: []LineItem{{ExerciseID: 1, Reps: 12}}, err: ErrInvalidLineItem},
		{name: "negative load", title: "A", items: []LineItem{{ExerciseID: 1, Sets: 1, Reps: 1, Load: -1}}, err: ErrInvalidLineItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(1, tt.title, "", tt.items)
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestSharedCopyIsIndependent(t *testing.T) {
	w, err := New(7, "Leg Day", "heavy", []LineItem{{ExerciseID: 1, Sets: 4, Reps: 12, Load: 60}})
	if err != nil {
		t.Fatal(err)
	}
	w.WorkoutID = 10

	c := w.SharedCopy(" (Shared)")
	if c.WorkoutID != 0 {
		t.Error("copy must be unsaved")
	}
	if c.Name != "Leg Day (Shared)" || c.OwnerID != 7 || c.Description != "heavy" {
		t.Errorf("unexpected copy %+v", c)
	}

	c.LineItems[0].Sets = 1
	if w.LineItems[0].Sets != 4 {
		t.Error("copy shares line items with the source")
	}
}
