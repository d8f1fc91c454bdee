package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/appengine-ltd/skyweather/internal/render"
	"github.com/appengine-ltd/skyweather/internal/sim"
)

func main() {
	var (
		configPath string
		dbPath     string
		region     string
		seed       int64
		hour       float64
		timescale  float64
		width      int
		height     int
		fps        int
		debug      bool
	)

	flag.StringVar(&configPath, "config", "", "weather config YAML layered over the built-in defaults")
	flag.StringVar(&dbPath, "db", "skyweather.db", "SQLite file for save slots (empty disables saving)")
	flag.StringVar(&region, "region", "", "starting region")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	flag.Float64Var(&hour, "hour", 9, "starting hour")
	flag.Float64Var(&timescale, "timescale", 30, "game seconds per real second")
	flag.IntVar(&width, "width", 1280, "window width")
	flag.IntVar(&height, "height", 720, "window height")
	flag.IntVar(&fps, "fps", 60, "target frames per second")
	flag.BoolVar(&debug, "debug", false, "development logging")
	flag.Parse()

	logger, err := sim.NewLogger(debug)
	if err != nil {
		die(fmt.Sprintf("logger: %v", err))
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

	w := render.NewWindow(render.WindowConfig{
		Title:  "skyweather",
		Width:  int32(width),
		Height: int32(height),
		FPS:    int32(fps),
	}, sky, s.Driver, s.Console)
	if err := w.Run(ctx); err != nil {
		if errors.Is(err, render.ErrNoGraphics) {
			die("skyview needs a cgo build with raylib; try weather-tui instead.")
		}
		if !errors.Is(err, context.Canceled) {
			die(err.Error())
		}
	}
}

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
