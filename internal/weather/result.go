package weather

import "math"

// Result is the resolved sky, fog, light and sound state for one instant.
type Result struct {
	CloudTexture     string
	NextCloudTexture string
	CloudBlendFactor float64

	FogColour     Colour
	AmbientColour Colour
	SunColour     Colour
	SkyColour     Colour
	SunDiscColour Colour

	FogDepth   float64
	WindSpeed  float64
	CloudSpeed float64
	GlareView  float64
	NightFade  float64

	IsStorm           bool
	LightningStrength float64

	RainSpeed      float64
	RainFrequency  float64
	ParticleEffect string
	RainEffect     string

	AmbientLoopSound   string
	AmbientSoundVolume float64
	EffectFade         float64

	Night bool
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector, or v itself when its length is zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

func lerp(a, b, factor float64) float64 {
	return a*(1-factor) + b*factor
}
