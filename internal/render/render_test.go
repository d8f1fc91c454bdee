package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/appengine-ltd/skyweather/internal/weather"
)

func TestSkyRecordsRendererCalls(t *testing.T) {
	s := NewSky()
	var r weather.Renderer = s

	r.SetSkyEnabled(true)
	r.ConfigureFog(0.5, weather.Colour{R: 1, A: 1})
	r.SetSunEnabled(true)
	r.SetSunDirection(weather.Vec3{Z: -1})
	r.SetMoons(weather.CelestialState{Alpha: 0.5}, weather.CelestialState{Alpha: 1})
	r.SetWeather(weather.Result{CloudTexture: "Tx_Sky_Clear.tga"})
	r.SetWeather(weather.Result{CloudTexture: "Tx_Sky_Rainy.tga"})

	f := s.Frame()
	if !f.SkyEnabled || !f.SunEnabled {
		t.Fatalf("expected sky and sun enabled, got %+v", f)
	}
	if f.FogDepth != 0.5 || f.FogColour.R != 1 {
		t.Fatalf("expected fog recorded, got depth=%v colour=%+v", f.FogDepth, f.FogColour)
	}
	if f.Masser.Alpha != 0.5 || f.Secunda.Alpha != 1 {
		t.Fatalf("expected moons recorded, got %+v %+v", f.Masser, f.Secunda)
	}
	if f.Updates != 2 || f.Weather.CloudTexture != "Tx_Sky_Rainy.tga" {
		t.Fatalf("expected latest weather after 2 updates, got %d %q", f.Updates, f.Weather.CloudTexture)
	}
}

func TestRGBA8Clamps(t *testing.T) {
	got := RGBA8(weather.Colour{R: -0.5, G: 0.5, B: 2, A: 1})
	want := color.RGBA{R: 0, G: 128, B: 255, A: 255}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMixEndpoints(t *testing.T) {
	a := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	b := color.RGBA{R: 200, G: 100, B: 0, A: 0}
	if got := Mix(a, b, 0); got != a {
		t.Fatalf("expected start colour, got %+v", got)
	}
	if got := Mix(a, b, 1); got != b {
		t.Fatalf("expected end colour, got %+v", got)
	}
	if got := Mix(a, b, 7); got != b {
		t.Fatalf("expected factor clamped to 1, got %+v", got)
	}
}

func TestSkyBandsRunFromSkyToFog(t *testing.T) {
	f := Frame{
		SkyEnabled: true,
		FogDepth:   0,
		FogColour:  weather.Colour{R: 1, G: 1, B: 1, A: 1},
		Weather:    weather.Result{SkyColour: weather.Colour{B: 1, A: 1}},
	}
	bands := SkyBands(f, 5)
	if len(bands) != 5 {
		t.Fatalf("expected 5 bands, got %d", len(bands))
	}
	if bands[0] != (color.RGBA{B: 255, A: 255}) {
		t.Fatalf("expected zenith sky colour, got %+v", bands[0])
	}
	if bands[4] != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("expected horizon fog colour, got %+v", bands[4])
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].R < bands[i-1].R {
			t.Fatalf("expected bands to brighten towards the horizon, got %+v", bands)
		}
	}

	f.SkyEnabled = false
	if got := SkyBands(f, 2); got[0] != BG || got[1] != BG {
		t.Fatalf("expected background when sky disabled, got %+v", got)
	}
}

func TestSunPosition(t *testing.T) {
	cycle := weather.DayCycle{SunriseTime: 6, SunsetTime: 18, SunriseDuration: 2, SunsetDuration: 2}

	noon := SunPosition(Frame{SkyEnabled: true, SunEnabled: cycle.SunVisible(12.5), SunDirection: cycle.SunDirection(12.5)}, 100, 50)
	if !noon.Visible {
		t.Fatalf("expected sun visible near noon")
	}
	if noon.Y > 10 {
		t.Fatalf("expected sun high near noon, got y=%v", noon.Y)
	}

	night := SunPosition(Frame{SkyEnabled: true, SunEnabled: cycle.SunVisible(1), SunDirection: cycle.SunDirection(1)}, 100, 50)
	if night.Visible {
		t.Fatalf("expected sun below the horizon at night, got %+v", night)
	}
}

func TestMoonPosition(t *testing.T) {
	tests := []struct {
		name    string
		state   weather.CelestialState
		x       float64
		visible bool
	}{
		{name: "rising", state: weather.CelestialState{RotationFromHorizon: 0, Alpha: 1}, x: 92, visible: false},
		{name: "overhead", state: weather.CelestialState{RotationFromHorizon: 90, Alpha: 1}, x: 50, visible: true},
		{name: "faded", state: weather.CelestialState{RotationFromHorizon: 90, Alpha: 0}, x: 50, visible: false},
	}
	for _, tc := range tests {
		got := MoonPosition(tc.state, 100, 50)
		if math.Abs(got.X-tc.x) > 1e-9 || got.Visible != tc.visible {
			t.Fatalf("%s: expected x=%v visible=%v, got %+v", tc.name, tc.x, tc.visible, got)
		}
	}
}

func TestMoonLit(t *testing.T) {
	if MoonLit(weather.PhaseFull) != 1 || MoonLit(weather.PhaseNew) != 0 || MoonLit(weather.PhaseFirstQuarter) != 0.5 {
		t.Fatalf("unexpected lit fractions")
	}
}
