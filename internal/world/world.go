package world

import (
	"strings"
	"sync"

	"github.com/appengine-ltd/skyweather/internal/weather"
)

// World is a minimal game world: a clock and where the player stands.
// It satisfies weather.World.
type World struct {
	mu       sync.RWMutex
	clock    *Clock
	region   string
	exterior bool
	inCell   bool
	position weather.Vec3
}

func New(clock *Clock) *World {
	if clock == nil {
		clock = NewClock(1, 9, DefaultTimescale)
	}
	return &World{clock: clock}
}

func (w *World) Clock() *Clock { return w.clock }

func (w *World) Hour() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clock.Hour()
}

func (w *World) Day() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clock.Day()
}

func (w *World) PlayerRegion() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.region
}

func (w *World) InCell() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.inCell
}

func (w *World) IsExterior() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.exterior
}

func (w *World) PlayerPosition() weather.Vec3 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.position
}

// Place puts the player in a cell of region. For an interior, region is the
// exterior the cell opens onto; the weather manager ignores it until the
// player steps outside.
func (w *World) Place(region string, exterior bool, pos weather.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.region = strings.TrimSpace(region)
	w.exterior = exterior
	w.inCell = true
	w.position = pos
}

func (w *World) SetExterior(exterior bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.exterior = exterior
}

func (w *World) MoveTo(pos weather.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.position = pos
}

func (w *World) advance(realSeconds float64) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clock.Advance(realSeconds)
}

func (w *World) skip(hours float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clock.AdvanceHours(hours)
}
