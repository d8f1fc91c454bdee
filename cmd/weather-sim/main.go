package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/appengine-ltd/skyweather/internal/console"
	"github.com/appengine-ltd/skyweather/internal/savegame"
	"github.com/appengine-ltd/skyweather/internal/sim"
)

func main() {
	var (
		configPath string
		dbPath     string
		region     string
		script     string
		loadSlot   string
		saveSlot   string
		seed       int64
		day        int
		hour       float64
		timescale  float64
		ticks      int
		dt         float64
		realtime   bool
		fps        int
		interior   bool
		debug      bool
		statusInt  time.Duration
	)

	flag.StringVar(&configPath, "config", "", "weather config YAML layered over the built-in defaults")
	flag.StringVar(&dbPath, "db", "", "SQLite file for save slots (empty disables saving)")
	flag.StringVar(&region, "region", "", "starting region (defaults to the first configured region)")
	flag.StringVar(&script, "exec", "", "console commands separated by ';' run before ticking")
	flag.StringVar(&loadSlot, "load", "", "slot to load before running")
	flag.StringVar(&saveSlot, "save", "", "slot to save after running")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	flag.IntVar(&day, "day", 1, "starting day")
	flag.Float64Var(&hour, "hour", 9, "starting hour")
	flag.Float64Var(&timescale, "timescale", 30, "game seconds per real second")
	flag.IntVar(&ticks, "ticks", 3600, "number of fixed ticks to run")
	flag.Float64Var(&dt, "dt", 1.0/60, "real seconds per fixed tick")
	flag.BoolVar(&realtime, "realtime", false, "tick against the wall clock until interrupted")
	flag.IntVar(&fps, "fps", 60, "ticks per second with -realtime")
	flag.BoolVar(&interior, "interior", false, "start inside an interior cell")
	flag.BoolVar(&debug, "debug", false, "development logging")
	flag.DurationVar(&statusInt, "status-interval", 5*time.Second, "minimum time between status log lines")
	flag.Parse()

	logger, err := sim.NewLogger(debug)
	if err != nil {
		die(fmt.Sprintf("logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := sim.Build(ctx, sim.Options{
		ConfigPath:     configPath,
		Seed:           seed,
		Region:         region,
		Interior:       interior,
		Day:            day,
		Hour:           hour,
		Timescale:      timescale,
		DBPath:         dbPath,
		StatusInterval: statusInt,
		Logger:         logger,
	})
	if err != nil {
		die(err.Error())
	}
	defer s.Close()

	if loadSlot != "" {
		if s.Slots == nil {
			die("-load needs -db")
		}
		state, err := s.Slots.Load(ctx, loadSlot)
		switch {
		case errors.Is(err, savegame.ErrNoRecord):
			logger.Info("no usable record, starting fresh", zap.String("slot", loadSlot))
			s.Manager.Clear()
		case err != nil:
			die(fmt.Sprintf("load %s: %v", loadSlot, err))
		default:
			s.Manager.Restore(state)
		}
	}

	if strings.TrimSpace(script) != "" {
		out, err := s.Exec(ctx, script)
		if out != "" {
			fmt.Println(out)
		}
		if err != nil {
			die(err.Error())
		}
	}

	if realtime {
		err = s.Driver.RunRealtime(ctx, fps)
	} else {
		err = s.Driver.Run(ctx, ticks, dt)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		die(fmt.Sprintf("run: %v", err))
	}

	if saveSlot != "" {
		if s.Slots == nil {
			die("-save needs -db")
		}
		if err := s.Slots.Save(context.Background(), saveSlot, s.Manager.State()); err != nil {
			die(fmt.Sprintf("save %s: %v", saveSlot, err))
		}
		logger.Info("saved", zap.String("slot", saveSlot))
	}

	fmt.Println(console.Describe(s.Driver))
}

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
