package weather

import (
	"math"
	"testing"

	"github.com/appengine-ltd/skyweather/internal/fallback"
)

func masser() MoonModel {
	return NewMoonModel(fallback.New(fallback.Defaults(), nil), "Masser")
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMoonAngleScenarios(t *testing.T) {
	m := masser()
	tests := []struct {
		name string
		day  int
		hour float64
		want float64
	}{
		{name: "at rise", day: 1, hour: 17, want: 0},
		{name: "after rise", day: 1, hour: 20, want: 22.5},
		{name: "carried from yesterday", day: 1, hour: 10, want: 135},
		{name: "set before rise", day: 1, hour: 16, want: 0},
		{name: "no rise today", day: 8, hour: 23, want: 0},
	}
	for _, tc := range tests {
		got := m.CalculateState(tc.day, tc.hour).RotationFromHorizon
		if !approx(got, tc.want) {
			t.Fatalf("%s: expected angle %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestMoonAngleStaysBelowHalfTurn(t *testing.T) {
	store := fallback.New(fallback.Defaults(), nil)
	for _, name := range []string{"Masser", "Secunda"} {
		m := NewMoonModel(store, name)
		for day := 0; day <= 120; day++ {
			rise := m.moonRiseHour(day)
			hours := []float64{rise - 1e-6, rise, rise + 1e-6}
			for h := 0.0; h < 24; h += 0.25 {
				hours = append(hours, h)
			}
			for _, h := range hours {
				if h < 0 || h >= 24 {
					continue
				}
				got := m.CalculateState(day, h).RotationFromHorizon
				if got < 0 || got >= 180 {
					t.Fatalf("%s day %d hour %v: expected angle in [0,180), got %v", name, day, h, got)
				}
			}
		}
	}
}

func TestMoonSpeedIsCapped(t *testing.T) {
	doc := fallback.Defaults()
	doc.Fallback["Moons_Masser_Speed"] = "100"
	m := NewMoonModel(fallback.New(doc, nil), "Masser")
	if !approx(m.Speed, 180.0/23.0) {
		t.Fatalf("expected speed capped at 180/23, got %v", m.Speed)
	}
}

func TestMoonPhaseCycle(t *testing.T) {
	m := masser()
	tests := []struct {
		day  int
		hour float64
		want MoonPhase
	}{
		{day: 1, hour: 10, want: PhaseFull},
		{day: 2, hour: 18, want: PhaseWaningGibbous},
		{day: 2, hour: 10, want: PhaseFull},
		{day: 12, hour: 0, want: PhaseNew},
		{day: 24, hour: 0, want: PhaseFull},
	}
	for _, tc := range tests {
		if got := m.CalculateState(tc.day, tc.hour).Phase; got != tc.want {
			t.Fatalf("day %d hour %v: expected %s, got %s", tc.day, tc.hour, tc.want, got)
		}
	}
}

func TestMoonFadeRamps(t *testing.T) {
	m := masser()
	blends := []struct{ angle, want float64 }{
		{angle: 20, want: 0},
		{angle: 45, want: 0.5},
		{angle: 90, want: 1},
		{angle: 135, want: 0.5},
		{angle: 170, want: 0},
	}
	for _, tc := range blends {
		if got := m.shadowBlend(tc.angle); !approx(got, tc.want) {
			t.Fatalf("shadow blend at %v: expected %v, got %v", tc.angle, tc.want, got)
		}
	}

	alphas := []struct{ hour, want float64 }{
		{hour: 8.5, want: 0.5},
		{hour: 12, want: 0},
		{hour: 14.5, want: 0.5},
		{hour: 20, want: 1},
	}
	for _, tc := range alphas {
		if got := m.hourlyAlpha(tc.hour); !approx(got, tc.want) {
			t.Fatalf("hourly alpha at %v: expected %v, got %v", tc.hour, tc.want, got)
		}
	}

	if got := m.earlyMoonShadowAlpha(39.75); !approx(got, 0.5) {
		t.Fatalf("expected early shadow alpha 0.5, got %v", got)
	}
	if got := m.earlyMoonShadowAlpha(10); got != 0 {
		t.Fatalf("expected hidden moon below early fade angle, got %v", got)
	}
}
