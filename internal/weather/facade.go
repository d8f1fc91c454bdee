package weather

// World is the read side of the game world the manager samples each tick.
type World interface {
	Hour() float64
	Day() int
	PlayerRegion() string
	// InCell reports whether the player is placed in any cell at all.
	InCell() bool
	// IsExterior covers exterior and quasi-exterior cells.
	IsExterior() bool
	PlayerPosition() Vec3
}

// Renderer receives the sky, light and fog state.
type Renderer interface {
	SetSkyEnabled(enabled bool)
	ConfigureFog(depth float64, colour Colour)
	SetSunEnabled(enabled bool)
	SetSunDirection(dir Vec3)
	SetSunColour(colour Colour)
	SetAmbientColour(colour Colour)
	SetStormDirection(dir Vec3)
	SetMoons(masser, secunda CelestialState)
	SetWeather(r Result)
}

// SoundPlayer plays looped ambience and one-shot thunder by id.
type SoundPlayer interface {
	// PlayLoop may return nil when the sound cannot be played.
	PlayLoop(id string, volume float64) SoundHandle
	PlayOnce(id string, volume float64)
	Stop(h SoundHandle)
}

type SoundHandle interface {
	SetVolume(volume float64)
}

type nopRenderer struct{}

func (nopRenderer) SetSkyEnabled(bool)                      {}
func (nopRenderer) ConfigureFog(float64, Colour)            {}
func (nopRenderer) SetSunEnabled(bool)                      {}
func (nopRenderer) SetSunDirection(Vec3)                    {}
func (nopRenderer) SetSunColour(Colour)                     {}
func (nopRenderer) SetAmbientColour(Colour)                 {}
func (nopRenderer) SetStormDirection(Vec3)                  {}
func (nopRenderer) SetMoons(CelestialState, CelestialState) {}
func (nopRenderer) SetWeather(Result)                       {}

type nopSound struct{}

func (nopSound) PlayLoop(string, float64) SoundHandle { return nil }
func (nopSound) PlayOnce(string, float64)             {}
func (nopSound) Stop(SoundHandle)                     {}
