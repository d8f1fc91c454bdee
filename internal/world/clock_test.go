package world

import (
	"math"
	"testing"
)

func TestClockAdvanceUsesTimescale(t *testing.T) {
	c := NewClock(1, 9, 30)
	hours := c.Advance(120)
	if math.Abs(hours-1) > 1e-9 {
		t.Fatalf("expected 1 game hour from 120s at timescale 30, got %v", hours)
	}
	if math.Abs(c.Hour()-10) > 1e-9 || c.Day() != 1 {
		t.Fatalf("expected day 1 10:00, got day %d %v", c.Day(), c.Hour())
	}
}

func TestClockRollsOverDays(t *testing.T) {
	tests := []struct {
		start    float64
		add      float64
		wantDay  int
		wantHour float64
	}{
		{start: 23, add: 2, wantDay: 2, wantHour: 1},
		{start: 0, add: 48, wantDay: 3, wantHour: 0},
		{start: 12, add: 0, wantDay: 1, wantHour: 12},
		{start: 12, add: -5, wantDay: 1, wantHour: 12},
	}
	for _, tc := range tests {
		c := NewClock(1, tc.start, 0)
		c.AdvanceHours(tc.add)
		if c.Day() != tc.wantDay || math.Abs(c.Hour()-tc.wantHour) > 1e-9 {
			t.Fatalf("start %v + %v: expected day %d hour %v, got day %d hour %v", tc.start, tc.add, tc.wantDay, tc.wantHour, c.Day(), c.Hour())
		}
	}
}

func TestClockDefaultTimescale(t *testing.T) {
	if got := NewClock(1, 0, -1).Timescale(); got != DefaultTimescale {
		t.Fatalf("expected default timescale, got %v", got)
	}
}
