package sim

import (
	"go.uber.org/zap"

	"github.com/appengine-ltd/skyweather/internal/weather"
)

// LogSound is a weather.SoundPlayer for headless runs that logs what would
// be heard.
type LogSound struct {
	logger *zap.Logger
}

func NewLogSound(logger *zap.Logger) *LogSound {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSound{logger: logger}
}

func (s *LogSound) PlayLoop(id string, volume float64) weather.SoundHandle {
	s.logger.Debug("loop start", zap.String("sound", id), zap.Float64("volume", volume))
	return &logHandle{id: id, volume: volume, logger: s.logger}
}

func (s *LogSound) PlayOnce(id string, volume float64) {
	s.logger.Debug("play", zap.String("sound", id), zap.Float64("volume", volume))
}

func (s *LogSound) Stop(h weather.SoundHandle) {
	if lh, ok := h.(*logHandle); ok {
		s.logger.Debug("loop stop", zap.String("sound", lh.id))
	}
}

type logHandle struct {
	id     string
	volume float64
	logger *zap.Logger
}

// SetVolume logs only noticeable changes; volume is set every tick.
func (h *logHandle) SetVolume(volume float64) {
	if d := volume - h.volume; d > 0.05 || d < -0.05 {
		h.logger.Debug("loop volume", zap.String("sound", h.id), zap.Float64("volume", volume))
		h.volume = volume
	}
}
