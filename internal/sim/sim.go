package sim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/appengine-ltd/skyweather/internal/console"
	"github.com/appengine-ltd/skyweather/internal/fallback"
	"github.com/appengine-ltd/skyweather/internal/savegame"
	"github.com/appengine-ltd/skyweather/internal/weather"
	"github.com/appengine-ltd/skyweather/internal/world"
)

type Options struct {
	ConfigPath string
	// Seed of 0 picks a time-based source.
	Seed      int64
	Region    string
	Interior  bool
	Day       int
	Hour      float64
	Timescale float64
	// DBPath of "" disables save slots.
	DBPath         string
	StatusInterval time.Duration

	Renderer weather.Renderer
	Sound    weather.SoundPlayer
	Logger   *zap.Logger
}

// Simulation bundles a ready-to-tick weather setup.
type Simulation struct {
	Config  *fallback.Store
	World   *world.World
	Manager *weather.Manager
	Driver  *world.Driver
	Console *console.Console
	Slots   *savegame.Store
	Logger  *zap.Logger
}

// NewLogger builds a production logger, or a development one when debug is set.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func Build(ctx context.Context, opts Options) (*Simulation, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := fallback.Load(opts.ConfigPath, logger.Named("fallback"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	day := opts.Day
	if day < 1 {
		day = 1
	}
	timescale := opts.Timescale
	if timescale <= 0 {
		timescale = world.DefaultTimescale
	}
	w := world.New(world.NewClock(day, opts.Hour, timescale))

	region := strings.TrimSpace(opts.Region)
	if region == "" {
		if regions := cfg.Regions(); len(regions) > 0 {
			region = regions[0].ID
		}
	}
	w.Place(region, !opts.Interior, weather.Vec3{})

	var rng weather.RandomSource
	if opts.Seed != 0 {
		rng = weather.NewSeededSource(opts.Seed)
	} else {
		rng = weather.NewSource()
	}

	sound := opts.Sound
	if sound == nil {
		sound = NewLogSound(logger.Named("sound"))
	}

	m := weather.NewManager(weather.Config{
		Store:    cfg,
		World:    w,
		Renderer: opts.Renderer,
		Sound:    sound,
		Random:   rng,
		Logger:   logger.Named("weather"),
	})
	d := world.NewDriver(w, m, logger.Named("driver"), opts.StatusInterval)

	s := &Simulation{
		Config:  cfg,
		World:   w,
		Manager: m,
		Driver:  d,
		Logger:  logger,
	}

	var slots console.Slots
	if strings.TrimSpace(opts.DBPath) != "" {
		store, err := savegame.Open(ctx, opts.DBPath, logger.Named("savegame"))
		if err != nil {
			return nil, fmt.Errorf("open save slots: %w", err)
		}
		s.Slots = store
		slots = store
	}
	s.Console = console.New(d, slots, logger.Named("console"))

	// First tick picks up the starting region.
	d.Tick(0)
	return s, nil
}

func (s *Simulation) Close() error {
	if s.Slots == nil {
		return nil
	}
	return s.Slots.Close()
}

// Exec runs console commands separated by ';' and returns their output.
func (s *Simulation) Exec(ctx context.Context, script string) (string, error) {
	var out []string
	for _, line := range strings.Split(script, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		text, err := s.Console.Execute(ctx, line)
		if err != nil {
			return strings.Join(out, "\n"), fmt.Errorf("%q: %w", line, err)
		}
		if text != "" {
			out = append(out, text)
		}
	}
	return strings.Join(out, "\n"), nil
}
