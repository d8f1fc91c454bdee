package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/appengine-ltd/skyweather/internal/render"
	"github.com/appengine-ltd/skyweather/internal/sim"
	"github.com/appengine-ltd/skyweather/internal/ui"
)

// version is injected at build time.
var version = "dev"

func main() {
	var (
		configPath string
		dbPath     string
		region     string
		logPath    string
		seed       int64
		hour       float64
		timescale  float64
		tick       time.Duration
		showVer    bool
	)

	flag.StringVar(&configPath, "config", "", "weather config YAML layered over the built-in defaults")
	flag.StringVar(&dbPath, "db", "skyweather.db", "SQLite file for save slots (empty disables saving)")
	flag.StringVar(&region, "region", "", "starting region")
	flag.StringVar(&logPath, "log", "", "write JSON logs to this file (the terminal is taken by the UI)")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	flag.Float64Var(&hour, "hour", 9, "starting hour")
	flag.Float64Var(&timescale, "timescale", 30, "game seconds per real second")
	flag.DurationVar(&tick, "tick", 100*time.Millisecond, "real time between simulation ticks")
	flag.BoolVar(&showVer, "version", false, "print version and exit")
	flag.Parse()

	if showVer {
		fmt.Printf("skyweather %s\n", version)
		return
	}

	logger := zap.NewNop()
	if logPath != "" {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
		l, err := cfg.Build()
		if err != nil {
			die(fmt.Sprintf("logger: %v", err))
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sky := render.NewSky()
	s, err := sim.Build(ctx, sim.Options{
		ConfigPath: configPath,
		Seed:       seed,
		Region:     region,
		Hour:       hour,
		Timescale:  timescale,
		DBPath:     dbPath,
		Renderer:   sky,
		Logger:     logger,
	})
	if err != nil {
		die(err.Error())
	}
	defer s.Close()

	app := ui.NewApp(ui.AppConfig{Version: version, TickInterval: tick}, s.Driver, s.Console, sky)
	if err := app.Run(ctx); err != nil {
		die(err.Error())
	}
}

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
