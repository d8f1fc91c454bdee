package weather

import (
	"github.com/appengine-ltd/skyweather/internal/fallback"
	"go.uber.org/zap"
)

type Colour = fallback.Colour

const (
	defaultTransitionDelta = 0.015
	defaultStormWindSpeed  = 0.7
	rainDropEffect         = `meshes\raindrop.nif`
)

// PhaseColours holds one colour per day phase.
type PhaseColours struct {
	Sunrise Colour
	Day     Colour
	Sunset  Colour
	Night   Colour
}

// Profile is the immutable parameter set of one weather type.
type Profile struct {
	Name         string
	CloudTexture string

	Sky     PhaseColours
	Fog     PhaseColours
	Ambient PhaseColours
	Sun     PhaseColours

	SunDiscSunsetColour Colour

	LandFogDayDepth   float64
	LandFogNightDepth float64

	WindSpeed  float64
	CloudSpeed float64
	GlareView  float64

	AmbientLoopSound string
	IsStorm          bool

	RainSpeed      float64
	RainFrequency  float64
	ParticleEffect string
	RainEffect     string

	// TransitionDelta is the rate, per real second, at which a transition
	// into this weather progresses. Always positive.
	TransitionDelta      float64
	CloudsMaximumPercent float64
}

type builtin struct {
	id             ID
	ambientLoop    string
	particleEffect string
}

var builtins = []builtin{
	{id: Clear},
	{id: Cloudy},
	{id: Foggy},
	{id: Overcast},
	{id: Rain, ambientLoop: "rain"},
	{id: Thunderstorm, ambientLoop: "rain heavy"},
	{id: Ashstorm, ambientLoop: "ashstorm", particleEffect: `meshes\ashcloud.nif`},
	{id: Blight, ambientLoop: "blight", particleEffect: `meshes\blightcloud.nif`},
	{id: Snow, particleEffect: `meshes\snow.nif`},
	{id: Blizzard, ambientLoop: "BM Blizzard", particleEffect: `meshes\blizzard.nif`},
}

// LoadProfiles builds the built-in profiles in ID order.
func LoadProfiles(store *fallback.Store, logger *zap.Logger) []Profile {
	if logger == nil {
		logger = zap.NewNop()
	}
	stormWind := store.Setting("fStromWindSpeed", defaultStormWindSpeed)
	rainSpeed := store.Float("Weather_Precip_Gravity")

	out := make([]Profile, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, NewProfile(store, b.id.String(), stormWind, rainSpeed, b.ambientLoop, b.particleEffect, logger))
	}
	return out
}

// NewProfile reads the Weather_<name>_* keys for one weather type.
func NewProfile(store *fallback.Store, name string, stormWindSpeed, rainSpeed float64, ambientLoop, particleEffect string, logger *zap.Logger) Profile {
	key := func(field string) string { return fallback.Key("Weather", name, field) }
	phases := func(prefix string) PhaseColours {
		return PhaseColours{
			Sunrise: store.Colour(key(prefix + "_Sunrise_Color")),
			Day:     store.Colour(key(prefix + "_Day_Color")),
			Sunset:  store.Colour(key(prefix + "_Sunset_Color")),
			Night:   store.Colour(key(prefix + "_Night_Color")),
		}
	}

	p := Profile{
		Name:                 name,
		CloudTexture:         store.String(key("Cloud_Texture")),
		Sky:                  phases("Sky"),
		Fog:                  phases("Fog"),
		Ambient:              phases("Ambient"),
		Sun:                  phases("Sun"),
		SunDiscSunsetColour:  store.Colour(key("Sun_Disc_Sunset_Color")),
		LandFogDayDepth:      store.Float(key("Land_Fog_Day_Depth")),
		LandFogNightDepth:    store.Float(key("Land_Fog_Night_Depth")),
		WindSpeed:            store.Float(key("Wind_Speed")),
		CloudSpeed:           store.Float(key("Cloud_Speed")),
		GlareView:            store.Float(key("Glare_View")),
		AmbientLoopSound:     ambientLoop,
		RainSpeed:            rainSpeed,
		RainFrequency:        store.Float(key("Rain_Entrance_Speed")),
		ParticleEffect:       particleEffect,
		TransitionDelta:      store.Float(key("Transition_Delta")),
		CloudsMaximumPercent: store.Float(key("Clouds_Maximum_Percent")),
	}
	p.IsStorm = p.WindSpeed > stormWindSpeed
	if store.Bool(key("Using_Precip")) {
		p.RainEffect = rainDropEffect
	}
	if p.TransitionDelta <= 0 {
		logger.Warn("non-positive transition delta, using default",
			zap.String("weather", name),
			zap.Float64("delta", p.TransitionDelta),
			zap.Float64("default", defaultTransitionDelta))
		p.TransitionDelta = defaultTransitionDelta
	}
	return p
}

// CloudBlendFactor maps transition progress onto cloud texture blending.
// The result saturates at 1 once progress reaches CloudsMaximumPercent.
func (p Profile) CloudBlendFactor(ratio float64) float64 {
	maxPercent := p.CloudsMaximumPercent
	if maxPercent <= 0 {
		maxPercent = 1
	}
	return min(ratio/maxPercent, 1)
}
