package sim

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/appengine-ltd/skyweather/internal/console"
	"github.com/appengine-ltd/skyweather/internal/weather"
)

func TestBuildPlacesPlayerInFirstRegion(t *testing.T) {
	s, err := Build(context.Background(), Options{Seed: 1, Hour: 12})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer s.Close()

	if got := s.World.PlayerRegion(); got != "Ascadian Isles Region" {
		t.Fatalf("expected first configured region, got %q", got)
	}
	if got := s.Manager.Status().Region; got != "ascadian isles region" {
		t.Fatalf("expected manager to track the region after the first tick, got %q", got)
	}
	if s.World.Clock().Timescale() != 30 {
		t.Fatalf("expected default timescale, got %v", s.World.Clock().Timescale())
	}
	if _, err := s.Exec(context.Background(), "save"); !errors.Is(err, console.ErrNoSlots) {
		t.Fatalf("expected ErrNoSlots without a database, got %v", err)
	}
}

func TestExecScriptWithSlots(t *testing.T) {
	ctx := context.Background()
	s, err := Build(ctx, Options{Seed: 2, Hour: 12, DBPath: "file::memory:"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer s.Close()

	out, err := s.Exec(ctx, "cw bitter coast rain; tp bitter coast; save q")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if !strings.Contains(out, "Saved to q.") {
		t.Fatalf("expected save output, got %q", out)
	}
	if s.Manager.WeatherID() != weather.Rain {
		t.Fatalf("expected Rain after teleport, got %s", s.Manager.WeatherID())
	}

	if _, err := s.Exec(ctx, "reset; load q"); err != nil {
		t.Fatalf("exec load: %v", err)
	}
	if s.Manager.WeatherID() != weather.Rain {
		t.Fatalf("expected Rain restored from the slot, got %s", s.Manager.WeatherID())
	}

	if _, err := s.Exec(ctx, "status; frobnicate"); !errors.Is(err, console.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestLogSoundHandleTracksVolume(t *testing.T) {
	s := NewLogSound(nil)
	h := s.PlayLoop("rain", 0.2)
	lh, ok := h.(*logHandle)
	if !ok {
		t.Fatalf("expected *logHandle, got %T", h)
	}
	h.SetVolume(0.22)
	if lh.volume != 0.2 {
		t.Fatalf("expected small change ignored, got %v", lh.volume)
	}
	h.SetVolume(0.5)
	if lh.volume != 0.5 {
		t.Fatalf("expected volume updated, got %v", lh.volume)
	}
	s.Stop(h)
}
