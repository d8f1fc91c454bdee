package render

import (
	"sync"

	"github.com/appengine-ltd/skyweather/internal/weather"
)

// Frame is the sky, light and fog state last pushed by the weather manager.
type Frame struct {
	SkyEnabled     bool
	FogDepth       float64
	FogColour      weather.Colour
	SunEnabled     bool
	SunDirection   weather.Vec3
	SunColour      weather.Colour
	AmbientColour  weather.Colour
	StormDirection weather.Vec3
	Masser         weather.CelestialState
	Secunda        weather.CelestialState
	Weather        weather.Result
	// Updates counts SetWeather calls, one per exterior tick.
	Updates int
}

// Sky is a weather.Renderer that keeps the latest Frame for a front end to
// draw. One goroutine may write while others read.
type Sky struct {
	mu    sync.RWMutex
	frame Frame
}

func NewSky() *Sky {
	return &Sky{}
}

func (s *Sky) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

func (s *Sky) SetSkyEnabled(enabled bool) {
	s.mu.Lock()
	s.frame.SkyEnabled = enabled
	s.mu.Unlock()
}

func (s *Sky) ConfigureFog(depth float64, colour weather.Colour) {
	s.mu.Lock()
	s.frame.FogDepth = depth
	s.frame.FogColour = colour
	s.mu.Unlock()
}

func (s *Sky) SetSunEnabled(enabled bool) {
	s.mu.Lock()
	s.frame.SunEnabled = enabled
	s.mu.Unlock()
}

func (s *Sky) SetSunDirection(dir weather.Vec3) {
	s.mu.Lock()
	s.frame.SunDirection = dir
	s.mu.Unlock()
}

func (s *Sky) SetSunColour(colour weather.Colour) {
	s.mu.Lock()
	s.frame.SunColour = colour
	s.mu.Unlock()
}

func (s *Sky) SetAmbientColour(colour weather.Colour) {
	s.mu.Lock()
	s.frame.AmbientColour = colour
	s.mu.Unlock()
}

func (s *Sky) SetStormDirection(dir weather.Vec3) {
	s.mu.Lock()
	s.frame.StormDirection = dir
	s.mu.Unlock()
}

func (s *Sky) SetMoons(masser, secunda weather.CelestialState) {
	s.mu.Lock()
	s.frame.Masser = masser
	s.frame.Secunda = secunda
	s.mu.Unlock()
}

func (s *Sky) SetWeather(r weather.Result) {
	s.mu.Lock()
	s.frame.Weather = r
	s.frame.Updates++
	s.mu.Unlock()
}
