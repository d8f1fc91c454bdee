package render

import (
	"errors"

	"github.com/appengine-ltd/skyweather/internal/console"
	"github.com/appengine-ltd/skyweather/internal/world"
)

// ErrNoGraphics is returned by Window.Run in builds without cgo.
var ErrNoGraphics = errors.New("sky preview requires a cgo build with raylib")

type WindowConfig struct {
	Title  string
	Width  int32
	Height int32
	FPS    int32
}

// Window draws the sky recorded by a Sky and runs console commands typed
// into it. Each frame ticks the driver with the measured frame time.
type Window struct {
	cfg     WindowConfig
	sky     *Sky
	driver  *world.Driver
	console *console.Console
	history *console.History

	input string
	quit  bool
}

func NewWindow(cfg WindowConfig, sky *Sky, d *world.Driver, c *console.Console) *Window {
	if cfg.Title == "" {
		cfg.Title = "skyweather"
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	return &Window{
		cfg:     cfg,
		sky:     sky,
		driver:  d,
		console: c,
		history: console.NewHistory(200),
	}
}
