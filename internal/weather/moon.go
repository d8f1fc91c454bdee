package weather

import (
	"math"

	"github.com/appengine-ltd/skyweather/internal/fallback"
)

// MoonPhase is the visible phase of a moon, starting from full.
type MoonPhase int

const (
	PhaseFull MoonPhase = iota
	PhaseWaningGibbous
	PhaseThirdQuarter
	PhaseWaningCrescent
	PhaseNew
	PhaseWaxingCrescent
	PhaseFirstQuarter
	PhaseWaxingGibbous
)

var moonPhaseNames = [...]string{
	"Full", "Waning Gibbous", "Third Quarter", "Waning Crescent",
	"New", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
}

func (p MoonPhase) String() string {
	if p >= 0 && int(p) < len(moonPhaseNames) {
		return moonPhaseNames[p]
	}
	return "Unknown"
}

const (
	// Day count at which the calendar starts; moonrise is offset from it.
	moonEpochDay   = 16
	degreesPerHour = 15.0
	maxMoonSpeed   = 180.0 / 23.0
)

// CelestialState is the momentary placement and look of a moon.
type CelestialState struct {
	RotationFromHorizon float64
	AxisOffset          float64
	Phase               MoonPhase
	ShadowBlend         float64
	Alpha               float64
}

// MoonModel computes a moon's state from the in-game day and hour.
type MoonModel struct {
	Name string

	FadeInStart   float64
	FadeInFinish  float64
	FadeOutStart  float64
	FadeOutFinish float64

	AxisOffset     float64
	Speed          float64
	DailyIncrement float64

	FadeStartAngle           float64
	FadeEndAngle             float64
	MoonShadowEarlyFadeAngle float64
}

// NewMoonModel reads Moons_<name>_* keys. Speed is capped so the 180 degree
// arc always fits into one day.
func NewMoonModel(store *fallback.Store, name string) MoonModel {
	key := func(field string) string { return fallback.Key("Moons", name, field) }
	m := MoonModel{
		Name:                     name,
		FadeInStart:              store.Float(key("Fade_In_Start")),
		FadeInFinish:             store.Float(key("Fade_In_Finish")),
		FadeOutStart:             store.Float(key("Fade_Out_Start")),
		FadeOutFinish:            store.Float(key("Fade_Out_Finish")),
		AxisOffset:               store.Float(key("Axis_Offset")),
		Speed:                    store.Float(key("Speed")),
		DailyIncrement:           store.Float(key("Daily_Increment")),
		FadeStartAngle:           store.Float(key("Fade_Start_Angle")),
		FadeEndAngle:             store.Float(key("Fade_End_Angle")),
		MoonShadowEarlyFadeAngle: store.Float(key("Moon_Shadow_Early_Fade_Angle")),
	}
	m.Speed = min(m.Speed, maxMoonSpeed)
	return m
}

func (m MoonModel) CalculateState(day int, hour float64) CelestialState {
	angle := m.angle(day, hour)
	return CelestialState{
		RotationFromHorizon: angle,
		AxisOffset:          m.AxisOffset,
		Phase:               m.phase(day, hour),
		ShadowBlend:         m.shadowBlend(angle),
		Alpha:               m.earlyMoonShadowAlpha(angle) * m.hourlyAlpha(hour),
	}
}

// angle is the rotation from the rising horizon in [0,180). A moon that rose
// yesterday and has not set keeps travelling into today; once it reaches 180
// it sits at the horizon until the next rise.
func (m MoonModel) angle(day int, hour float64) float64 {
	riseToday := m.moonRiseHour(day)
	angle := 0.0

	if hour < riseToday {
		riseYesterday := m.moonRiseHour(day - 1)
		if riseYesterday < 24 {
			carried := m.rotation(24 - riseYesterday)
			if carried < 180 {
				angle = m.rotation(hour) + carried
			}
		}
	} else {
		angle = m.rotation(hour - riseToday)
	}

	if angle >= 180 || angle < 0 {
		angle = 0
	}
	return angle
}

// moonRiseHour may exceed 24, meaning the moon does not rise that day.
func (m MoonModel) moonRiseHour(day int) float64 {
	offset := math.Mod(float64(day-1+moonEpochDay)*m.DailyIncrement, 24)
	if offset < 0 {
		offset += 24
	}
	return m.DailyIncrement + offset
}

func (m MoonModel) rotation(hours float64) float64 {
	return degreesPerHour * m.Speed * hours
}

// phase follows a three day cycle; before today's rise the previous phase shows.
func (m MoonModel) phase(day int, hour float64) MoonPhase {
	if day < 0 {
		day = 0
	}
	if hour < m.moonRiseHour(day) {
		return MoonPhase((day / 3) % 8)
	}
	return MoonPhase(((day + 1) / 3) % 8)
}

func (m MoonModel) shadowBlend(angle float64) float64 {
	fadeAngle := m.FadeStartAngle - m.FadeEndAngle
	fadeEndAngle2 := 180 - m.FadeEndAngle
	fadeStartAngle2 := 180 - m.FadeStartAngle
	switch {
	case angle >= m.FadeEndAngle && angle < m.FadeStartAngle:
		return (angle - m.FadeEndAngle) / fadeAngle
	case angle >= m.FadeStartAngle && angle < fadeStartAngle2:
		return 1
	case angle >= fadeStartAngle2 && angle < fadeEndAngle2:
		return (fadeEndAngle2 - angle) / fadeAngle
	default:
		return 0
	}
}

func (m MoonModel) hourlyAlpha(hour float64) float64 {
	switch {
	case hour >= m.FadeOutStart && hour < m.FadeOutFinish:
		return (m.FadeOutFinish - hour) / (m.FadeOutFinish - m.FadeOutStart)
	case hour >= m.FadeOutFinish && hour < m.FadeInStart:
		return 0
	case hour >= m.FadeInStart && hour < m.FadeInFinish:
		return (hour - m.FadeInStart) / (m.FadeInFinish - m.FadeInStart)
	default:
		return 1
	}
}

func (m MoonModel) earlyMoonShadowAlpha(angle float64) float64 {
	early1 := m.FadeEndAngle - m.MoonShadowEarlyFadeAngle
	fadeEndAngle2 := 180 - m.FadeEndAngle
	early2 := fadeEndAngle2 + m.MoonShadowEarlyFadeAngle
	switch {
	case angle >= early1 && angle < m.FadeEndAngle:
		return (angle - early1) / m.MoonShadowEarlyFadeAngle
	case angle >= m.FadeEndAngle && angle < fadeEndAngle2:
		return 1
	case angle >= fadeEndAngle2 && angle < early2:
		return (early2 - angle) / m.MoonShadowEarlyFadeAngle
	default:
		return 0
	}
}
