package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/appengine-ltd/skyweather/internal/fallback"
	"github.com/appengine-ltd/skyweather/internal/weather"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	var configPath, root string
	flag.StringVar(&configPath, "config", "", "weather config YAML layered over the built-in defaults")
	flag.StringVar(&root, "out", filepath.Join("docs", "reference", "weather"), "output directory")
	flag.Parse()

	store, err := fallback.Load(configPath, nil)
	if err != nil {
		fatal(err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	profiles := weather.LoadProfiles(store, nil)
	cycle := weather.NewDayCycle(store)
	files := []docFile{
		generateProfilesDoc(profiles),
		generateColoursDoc(profiles, cycle),
		generateRegionsDoc(store.Regions()),
		generateSkyDoc(store, cycle),
	}
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateIndex(files)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Weather Reference\n\n")
	b.WriteString("Generated from the active weather config using `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateProfilesDoc(profiles []weather.Profile) docFile {
	var b strings.Builder
	b.WriteString("# Weather Profiles\n\n")
	b.WriteString("Source: `internal/weather/profile.go` (`LoadProfiles`).\n\n")
	b.WriteString(fmt.Sprintf("Total profiles: **%d**.\n\n", len(profiles)))
	b.WriteString("| ID | Name | Clouds | Wind | Cloud Speed | Glare | Storm | Transition Delta | Max Cloud % | Fog Depth (day/night) | Ambient Loop | Particles | Rain |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for i, p := range profiles {
		b.WriteString("| ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" | ")
		b.WriteString(escape(p.Name))
		b.WriteString(" | ")
		b.WriteString(escape(p.CloudTexture))
		b.WriteString(" | ")
		b.WriteString(formatFloat(p.WindSpeed))
		b.WriteString(" | ")
		b.WriteString(formatFloat(p.CloudSpeed))
		b.WriteString(" | ")
		b.WriteString(formatFloat(p.GlareView))
		b.WriteString(" | ")
		b.WriteString(yesNo(p.IsStorm))
		b.WriteString(" | ")
		b.WriteString(formatFloat(p.TransitionDelta))
		b.WriteString(" | ")
		b.WriteString(formatFloat(p.CloudsMaximumPercent))
		b.WriteString(" | ")
		b.WriteString(formatFloat(p.LandFogDayDepth) + " / " + formatFloat(p.LandFogNightDepth))
		b.WriteString(" | ")
		b.WriteString(escape(p.AmbientLoopSound))
		b.WriteString(" | ")
		b.WriteString(escape(p.ParticleEffect))
		b.WriteString(" | ")
		if p.RainEffect != "" {
			b.WriteString(escape(fmt.Sprintf("%s speed %s freq %s", p.RainEffect, formatFloat(p.RainSpeed), formatFloat(p.RainFrequency))))
		}
		b.WriteString(" |\n")
	}
	return docFile{Name: "profiles.md", Title: "Weather Profiles", Content: b.String()}
}

// generateColoursDoc samples the steady sky and fog colour of every profile
// once per day phase.
func generateColoursDoc(profiles []weather.Profile, cycle weather.DayCycle) docFile {
	comp := weather.NewCompositor(cycle, profiles)
	samples := []struct {
		label string
		hour  float64
	}{
		{"02:00 night", 2},
		{"sunrise", cycle.SunriseTime},
		{"12:00 day", 12},
		{"sunset", cycle.SunsetTime},
	}

	var b strings.Builder
	b.WriteString("# Sky Colours\n\n")
	b.WriteString("Source: `internal/weather/compositor.go` (`ComposeSteady`). Each cell is sky / fog.\n\n")
	b.WriteString("| Weather |")
	for _, s := range samples {
		b.WriteString(" " + s.label + " |")
	}
	b.WriteString("\n| --- |")
	for range samples {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for i, p := range profiles {
		b.WriteString("| ")
		b.WriteString(escape(p.Name))
		b.WriteString(" |")
		for _, s := range samples {
			r := comp.ComposeSteady(weather.ID(i), s.hour)
			b.WriteString(" `" + hex(r.SkyColour) + "` / `" + hex(r.FogColour) + "` |")
		}
		b.WriteString("\n")
	}
	return docFile{Name: "colours.md", Title: "Sky Colours", Content: b.String()}
}

func generateRegionsDoc(regions []fallback.Region) docFile {
	names := weather.Names()
	var b strings.Builder
	b.WriteString("# Regions\n\n")
	b.WriteString("Source: the `regions` section of the weather config. Chances are percentages.\n\n")
	b.WriteString(fmt.Sprintf("Total regions: **%d**.\n\n", len(regions)))
	b.WriteString("| Region |")
	for _, n := range names {
		b.WriteString(" " + n + " |")
	}
	b.WriteString(" Sum |\n| --- |")
	for range names {
		b.WriteString(" --- |")
	}
	b.WriteString(" --- |\n")
	for _, r := range regions {
		b.WriteString("| ")
		b.WriteString(escape(r.ID))
		b.WriteString(" |")
		sum := 0
		for _, c := range r.Chances() {
			sum += c
			if c == 0 {
				b.WriteString(" |")
				continue
			}
			b.WriteString(" " + strconv.Itoa(c) + " |")
		}
		b.WriteString(" " + strconv.Itoa(sum) + " |\n")
	}
	return docFile{Name: "regions.md", Title: "Regions", Content: b.String()}
}

func generateSkyDoc(store *fallback.Store, cycle weather.DayCycle) docFile {
	var b strings.Builder
	b.WriteString("# Day Cycle and Moons\n\n")
	b.WriteString("| Setting | Value |\n| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Sunrise | %s (+%sh) |\n", formatFloat(cycle.SunriseTime), formatFloat(cycle.SunriseDuration)))
	b.WriteString(fmt.Sprintf("| Sunset | %s (+%sh) |\n", formatFloat(cycle.SunsetTime), formatFloat(cycle.SunsetDuration)))
	b.WriteString(fmt.Sprintf("| Night | %s to %s |\n", formatFloat(cycle.NightStart()), formatFloat(cycle.NightEnd())))
	b.WriteString(fmt.Sprintf("| Hours between weather changes | %s |\n", formatFloat(store.Float("Weather_Hours_Between_Weather_Changes"))))
	b.WriteString("\n")

	b.WriteString("| Moon | Speed | Daily Increment | Axis Offset | Fade In | Fade Out | Fade Angles | Early Shadow Fade |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, name := range []string{"Masser", "Secunda"} {
		m := weather.NewMoonModel(store, name)
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s-%s | %s-%s | %s-%s | %s |\n",
			m.Name,
			formatFloat(m.Speed),
			formatFloat(m.DailyIncrement),
			formatFloat(m.AxisOffset),
			formatFloat(m.FadeInStart), formatFloat(m.FadeInFinish),
			formatFloat(m.FadeOutStart), formatFloat(m.FadeOutFinish),
			formatFloat(m.FadeStartAngle), formatFloat(m.FadeEndAngle),
			formatFloat(m.MoonShadowEarlyFadeAngle),
		))
	}

	b.WriteString("\nMasser over the first lunar cycle at midnight:\n\n")
	b.WriteString("| Day | Phase | Angle | Alpha |\n| --- | --- | --- | --- |\n")
	masser := weather.NewMoonModel(store, "Masser")
	for day := 1; day <= 24; day += 3 {
		s := masser.CalculateState(day, 0)
		b.WriteString(fmt.Sprintf("| %d | %s | %.1f | %.2f |\n", day, s.Phase, s.RotationFromHorizon, s.Alpha))
	}
	return docFile{Name: "sky.md", Title: "Day Cycle and Moons", Content: b.String()}
}

func hex(c weather.Colour) string {
	conv := func(v float64) int {
		n := int(v*255 + 0.5)
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return n
	}
	return fmt.Sprintf("#%02X%02X%02X", conv(c.R), conv(c.G), conv(c.B))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
