package weather

import (
	"math"

	"github.com/appengine-ltd/skyweather/internal/fallback"
)

// DayPhase names the band of the day an hour falls in.
type DayPhase int

const (
	PhaseNight DayPhase = iota
	PhaseSunrise
	PhaseDay
	PhaseSunset
)

func (p DayPhase) String() string {
	switch p {
	case PhaseSunrise:
		return "sunrise"
	case PhaseDay:
		return "day"
	case PhaseSunset:
		return "sunset"
	default:
		return "night"
	}
}

// DayCycle holds the configured sunrise and sunset hours and durations.
type DayCycle struct {
	SunriseTime     float64
	SunsetTime      float64
	SunriseDuration float64
	SunsetDuration  float64
}

func NewDayCycle(store *fallback.Store) DayCycle {
	return DayCycle{
		SunriseTime:     store.Float("Weather_Sunrise_Time"),
		SunsetTime:      store.Float("Weather_Sunset_Time"),
		SunriseDuration: store.Float("Weather_Sunrise_Duration"),
		SunsetDuration:  store.Float("Weather_Sunset_Duration"),
	}
}

func (d DayCycle) NightStart() float64 { return d.SunsetTime + d.SunsetDuration }
func (d DayCycle) NightEnd() float64   { return d.SunriseTime - 0.5 }
func (d DayCycle) DayStart() float64   { return d.SunriseTime + d.SunriseDuration }
func (d DayCycle) DayEnd() float64     { return d.SunsetTime }

// IsNight is true from an hour before night start until sunrise.
func (d DayCycle) IsNight(hour float64) bool {
	return hour < d.SunriseTime || hour > d.NightStart()-1
}

// Phase classifies hour into the colour bands used by the compositor. The
// fade margins differ between sunrise and sunset.
func (d DayCycle) Phase(hour float64) DayPhase {
	switch {
	case hour <= d.NightEnd() || hour >= d.NightStart()+1:
		return PhaseNight
	case hour <= d.DayStart()+1:
		return PhaseSunrise
	case hour <= d.DayEnd()-1:
		return PhaseDay
	default:
		return PhaseSunset
	}
}

// SunVisible is false from night start through sunrise.
func (d DayCycle) SunVisible(hour float64) bool {
	return !(hour >= d.NightStart() || hour <= d.SunriseTime)
}

// SunDirection runs the sun east to west at a fixed tilt, one half turn
// across the day window and another across the night window.
func (d DayCycle) SunDirection(hour float64) Vec3 {
	adjustedHour := hour
	adjustedNightStart := d.NightStart()
	if hour < d.SunriseTime {
		adjustedHour += 24
	}
	if adjustedNightStart < d.SunriseTime {
		adjustedNightStart += 24
	}

	dayDuration := adjustedNightStart - d.SunriseTime
	nightDuration := 24 - dayDuration

	var theta float64
	if adjustedHour < adjustedNightStart {
		theta = math.Pi * (adjustedHour - d.SunriseTime) / dayDuration
	} else {
		theta = math.Pi * (adjustedHour - adjustedNightStart) / nightDuration
	}
	// -0.268 is roughly tan(-15 degrees).
	return Vec3{X: math.Cos(theta), Y: -0.268, Z: math.Sin(theta)}.Scale(-1)
}

// Compositor turns profiles and an hour into a Result.
type Compositor struct {
	cycle    DayCycle
	profiles []Profile
}

func NewCompositor(cycle DayCycle, profiles []Profile) *Compositor {
	return &Compositor{cycle: cycle, profiles: profiles}
}

func (c *Compositor) Cycle() DayCycle { return c.cycle }

// ComposeSteady resolves a single profile at hour.
func (c *Compositor) ComposeSteady(id ID, hour float64) Result {
	p := c.profiles[id]
	d := c.cycle

	r := Result{
		CloudTexture:       p.CloudTexture,
		WindSpeed:          p.WindSpeed,
		CloudSpeed:         p.CloudSpeed,
		GlareView:          p.GlareView,
		AmbientLoopSound:   p.AmbientLoopSound,
		AmbientSoundVolume: 1,
		EffectFade:         1,
		SunDiscColour:      p.SunDiscSunsetColour,
		IsStorm:            p.IsStorm,
		RainSpeed:          p.RainSpeed,
		RainFrequency:      p.RainFrequency,
		ParticleEffect:     p.ParticleEffect,
		RainEffect:         p.RainEffect,
		Night:              d.IsNight(hour),
	}
	if r.Night {
		r.FogDepth = p.LandFogNightDepth
	} else {
		r.FogDepth = p.LandFogDayDepth
	}

	set := func(pick func(PhaseColours) Colour) {
		r.FogColour = pick(p.Fog)
		r.AmbientColour = pick(p.Ambient)
		r.SunColour = pick(p.Sun)
		r.SkyColour = pick(p.Sky)
	}
	blend := func(from, to func(PhaseColours) Colour, factor float64) {
		set(func(pc PhaseColours) Colour { return from(pc).Lerp(to(pc), factor) })
	}
	sunrise := func(pc PhaseColours) Colour { return pc.Sunrise }
	day := func(pc PhaseColours) Colour { return pc.Day }
	sunset := func(pc PhaseColours) Colour { return pc.Sunset }
	night := func(pc PhaseColours) Colour { return pc.Night }

	switch d.Phase(hour) {
	case PhaseNight:
		set(night)
		r.NightFade = 1
	case PhaseSunrise:
		if hour <= d.SunriseTime {
			factor := (d.SunriseTime - hour) / 0.5
			blend(sunrise, night, factor)
			r.NightFade = factor
		} else {
			blend(sunrise, day, (hour-d.SunriseTime)/3)
		}
	case PhaseDay:
		set(day)
	case PhaseSunset:
		if hour <= d.DayEnd()+1 {
			blend(sunset, day, (d.DayEnd()+1-hour)/2)
		} else {
			factor := (hour - (d.DayEnd() + 1)) / 2
			blend(sunset, night, factor)
			r.NightFade = factor
		}
	}
	return r
}

// ComposeTransition blends current into next by factor, the completed
// fraction of the transition. Discrete fields switch halfway, with the
// ambient volume and effect fade dipping to zero at the swap.
func (c *Compositor) ComposeTransition(current, next ID, factor, hour float64) Result {
	from := c.ComposeSteady(current, hour)
	to := c.ComposeSteady(next, hour)

	r := from
	r.NextCloudTexture = to.CloudTexture
	r.CloudBlendFactor = c.profiles[next].CloudBlendFactor(factor)

	r.FogColour = from.FogColour.Lerp(to.FogColour, factor)
	r.SunColour = from.SunColour.Lerp(to.SunColour, factor)
	r.SkyColour = from.SkyColour.Lerp(to.SkyColour, factor)
	r.AmbientColour = from.AmbientColour.Lerp(to.AmbientColour, factor)
	r.SunDiscColour = from.SunDiscColour.Lerp(to.SunDiscColour, factor)
	r.FogDepth = lerp(from.FogDepth, to.FogDepth, factor)
	r.WindSpeed = lerp(from.WindSpeed, to.WindSpeed, factor)
	r.CloudSpeed = lerp(from.CloudSpeed, to.CloudSpeed, factor)
	r.GlareView = lerp(from.GlareView, to.GlareView, factor)
	r.NightFade = lerp(from.NightFade, to.NightFade, factor)
	r.Night = from.Night

	discrete := to
	if factor < 0.5 {
		discrete = from
		r.AmbientSoundVolume = 1 - factor*2
	} else {
		r.AmbientSoundVolume = 2 * (factor - 0.5)
	}
	r.EffectFade = r.AmbientSoundVolume
	r.IsStorm = discrete.IsStorm
	r.ParticleEffect = discrete.ParticleEffect
	r.RainEffect = discrete.RainEffect
	r.RainSpeed = discrete.RainSpeed
	r.RainFrequency = discrete.RainFrequency
	r.AmbientLoopSound = discrete.AmbientLoopSound
	return r
}
