package world

import (
	"context"
	"time"

	"github.com/appengine-ltd/skyweather/internal/weather"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultStatusInterval = 5 * time.Second

// Driver feeds a weather manager from a world, one tick per frame.
type Driver struct {
	world   *World
	manager *weather.Manager
	logger  *zap.Logger
	status  rate.Sometimes
	paused  bool
	ticks   int
}

func NewDriver(w *World, m *weather.Manager, logger *zap.Logger, statusInterval time.Duration) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if statusInterval <= 0 {
		statusInterval = defaultStatusInterval
	}
	return &Driver{
		world:   w,
		manager: m,
		logger:  logger,
		status:  rate.Sometimes{First: 1, Interval: statusInterval},
	}
}

func (d *Driver) World() *World             { return d.world }
func (d *Driver) Manager() *weather.Manager { return d.manager }
func (d *Driver) Paused() bool              { return d.paused }
func (d *Driver) SetPaused(p bool)          { d.paused = p }
func (d *Driver) Ticks() int                { return d.ticks }

// Tick advances the game clock by dt real seconds (unless paused) and
// updates the weather.
func (d *Driver) Tick(dt float64) {
	if !d.paused {
		hours := d.world.advance(dt)
		d.manager.AdvanceTime(hours, true)
	}
	d.manager.Update(dt, d.paused)
	d.ticks++
	d.status.Do(d.logStatus)
}

// Skip jumps the clock as sleeping or travelling does. Running transitions
// complete on the next tick.
func (d *Driver) Skip(hours float64) {
	if hours <= 0 {
		return
	}
	d.world.skip(hours)
	d.manager.AdvanceTime(hours, false)
	d.logger.Debug("time skipped", zap.Float64("hours", hours))
}

// Teleport places the player and lets the manager snap the weather.
func (d *Driver) Teleport(region string, exterior bool, pos weather.Vec3) {
	d.world.Place(region, exterior, pos)
	d.manager.PlayerTeleported()
}

// SetExterior moves the player between an interior and the surrounding
// exterior. Stepping out into a region other than the tracked one snaps the
// weather like a teleport.
func (d *Driver) SetExterior(exterior bool) {
	d.world.SetExterior(exterior)
	d.manager.PlayerTeleported()
	d.Tick(0)
}

// Run ticks n times with a fixed step, stopping early when ctx is done.
func (d *Driver) Run(ctx context.Context, n int, dt float64) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Tick(dt)
	}
	return nil
}

// RunRealtime ticks at fps with measured frame times until ctx is done.
func (d *Driver) RunRealtime(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			d.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

func (d *Driver) logStatus() {
	st := d.manager.Status()
	d.logger.Info("weather status",
		zap.Int("day", d.world.Day()),
		zap.Float64("hour", d.world.Hour()),
		zap.String("region", st.Region),
		zap.Stringer("weather", st.Current),
		zap.Stringer("next", st.Next),
		zap.Float64("factor", st.Factor),
		zap.Stringer("phase", st.Phase),
		zap.Bool("exterior", st.Exterior),
		zap.String("ambient", st.AmbientSound))
}
