package render

import (
	"image/color"
	"math"

	"github.com/appengine-ltd/skyweather/internal/weather"
)

// Chrome colours for panels drawn around the sky.
var (
	BG            = color.RGBA{R: 0x14, G: 0x1A, B: 0x1F, A: 255}
	Panel         = color.RGBA{R: 0x1C, G: 0x23, B: 0x29, A: 255}
	Border        = color.RGBA{R: 0x2E, G: 0x3A, B: 0x40, A: 255}
	TextPrimary   = color.RGBA{R: 0xE8, G: 0xE2, B: 0xD8, A: 255}
	TextSecondary = color.RGBA{R: 0xA6, G: 0xAD, B: 0xB1, A: 255}
	AccentEmber   = color.RGBA{R: 0xD4, G: 0x6A, B: 0x1E, A: 255}
	WarningAmber  = color.RGBA{R: 0xC1, G: 0x8B, B: 0x2F, A: 255}
	MoonMasser    = color.RGBA{R: 0xE6, G: 0xC8, B: 0xB4, A: 255}
	MoonSecunda   = color.RGBA{R: 0xD2, G: 0xD7, B: 0xE6, A: 255}
)

// RGBA8 converts a normalised colour, clamping each component.
func RGBA8(c weather.Colour) color.RGBA {
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

func Mix(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	inv := 1 - t
	return color.RGBA{
		R: uint8(math.Round(float64(a.R)*inv + float64(b.R)*t)),
		G: uint8(math.Round(float64(a.G)*inv + float64(b.G)*t)),
		B: uint8(math.Round(float64(a.B)*inv + float64(b.B)*t)),
		A: uint8(math.Round(float64(a.A)*inv + float64(b.A)*t)),
	}
}

func Fade(c color.RGBA, alpha float64) color.RGBA {
	c.A = channel(float64(c.A) / 255 * alpha)
	return c
}

// SkyBands returns n colours from zenith to horizon. The sky colour thins
// into the fog colour towards the horizon, more so in deep fog.
func SkyBands(f Frame, n int) []color.RGBA {
	if n <= 0 {
		return nil
	}
	sky := RGBA8(f.Weather.SkyColour)
	fog := RGBA8(f.FogColour)
	sky.A, fog.A = 255, 255
	if !f.SkyEnabled {
		out := make([]color.RGBA, n)
		for i := range out {
			out[i] = BG
		}
		return out
	}
	haze := 0.35 + 0.65*(1-clamp01(f.FogDepth))
	out := make([]color.RGBA, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = Mix(sky, fog, math.Pow(t, 1/haze))
	}
	return out
}

// Point is a position in a w by h view with the horizon on the bottom edge.
type Point struct {
	X, Y float64
	// Visible is false when the body is below the horizon.
	Visible bool
}

// SunPosition projects the sun into the view. The frame holds the light
// direction, so the sun sits opposite it. At night the same direction lights
// the scene but the disc is hidden.
func SunPosition(f Frame, w, h float64) Point {
	pos := f.SunDirection.Scale(-1)
	return Point{
		X:       w/2 + pos.X*w*0.45,
		Y:       h - pos.Z*h*0.9,
		Visible: f.SkyEnabled && f.SunEnabled && pos.Z > 0,
	}
}

// MoonPosition places a moon by its rotation from the horizon in degrees,
// rising on the east edge and setting on the west.
func MoonPosition(m weather.CelestialState, w, h float64) Point {
	rad := m.RotationFromHorizon * math.Pi / 180
	return Point{
		X:       w/2 + math.Cos(rad)*w*0.42,
		Y:       h - math.Sin(rad)*h*0.8 - m.AxisOffset/90*h*0.1,
		Visible: m.Alpha > 0 && m.RotationFromHorizon > 0 && m.RotationFromHorizon < 180,
	}
}

// MoonLit returns the lit fraction of a moon's disc for its phase.
func MoonLit(p weather.MoonPhase) float64 {
	switch p {
	case weather.PhaseFull:
		return 1
	case weather.PhaseWaningGibbous, weather.PhaseWaxingGibbous:
		return 0.75
	case weather.PhaseThirdQuarter, weather.PhaseFirstQuarter:
		return 0.5
	case weather.PhaseWaningCrescent, weather.PhaseWaxingCrescent:
		return 0.25
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
