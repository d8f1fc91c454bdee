//go:build cgo

package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/skyweather/internal/console"
	"github.com/appengine-ltd/skyweather/internal/weather"
)

const skyBandCount = 48

func rlColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// Run opens the window and blocks until it is closed or ctx is done.
func (w *Window) Run(ctx context.Context) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(w.cfg.Width, w.cfg.Height, w.cfg.Title)
	rl.SetExitKey(0)
	rl.SetTargetFPS(w.cfg.FPS)
	defer rl.CloseWindow()

	w.history.Append("Type help and press Enter. Space pauses, Esc quits.")
	last := time.Now()
	for !w.quit && !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := time.Now()
		delta := now.Sub(last)
		if delta < 0 {
			delta = 0
		}
		last = now

		w.update(ctx, delta)

		rl.BeginDrawing()
		rl.ClearBackground(rlColor(BG))
		w.draw()
		rl.EndDrawing()
	}
	return nil
}

func (w *Window) update(ctx context.Context, delta time.Duration) {
	if rl.IsKeyPressed(rl.KeyEscape) {
		if w.input == "" {
			w.quit = true
			return
		}
		w.input = ""
	}
	if w.input == "" && rl.IsKeyPressed(rl.KeySpace) {
		w.driver.SetPaused(!w.driver.Paused())
		if w.driver.Paused() {
			w.history.Append("Time paused.")
		} else {
			w.history.Append("Time resumed.")
		}
	} else {
		captureTextInput(&w.input, 120)
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		w.history.Submit(ctx, w.console, w.input)
		w.input = ""
	}

	w.driver.Tick(delta.Seconds())
}

func captureTextInput(target *string, maxLen int) {
	for ch := rl.GetCharPressed(); ch > 0; ch = rl.GetCharPressed() {
		if ch >= 32 && ch <= 126 && len(*target) < maxLen {
			*target += string(rune(ch))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(*target) > 0 {
		*target = (*target)[:len(*target)-1]
	}
}

func (w *Window) draw() {
	width := float32(rl.GetScreenWidth())
	height := float32(rl.GetScreenHeight())
	f := w.sky.Frame()

	panelH := float32(190)
	if height < 480 {
		panelH = 140
	}
	skyRect := rl.NewRectangle(0, 0, width, height-panelH)
	w.drawSky(f, skyRect)
	w.drawPanel(f, rl.NewRectangle(0, height-panelH, width, panelH))
}

func (w *Window) drawSky(f Frame, rect rl.Rectangle) {
	bands := SkyBands(f, skyBandCount)
	bandH := rect.Height / float32(len(bands))
	for i, c := range bands {
		y := rect.Y + float32(i)*bandH
		rl.DrawRectangleRec(rl.NewRectangle(rect.X, y, rect.Width, bandH+1), rlColor(c))
	}
	if !f.SkyEnabled {
		rl.DrawText("interior", int32(rect.X)+16, int32(rect.Y)+16, 20, rlColor(TextSecondary))
		return
	}

	wd, ht := float64(rect.Width), float64(rect.Height)
	for _, moon := range []struct {
		state weather.CelestialState
		tint  color.RGBA
		size  float32
	}{
		{f.Masser, MoonMasser, 34},
		{f.Secunda, MoonSecunda, 20},
	} {
		p := MoonPosition(moon.state, wd, ht)
		if !p.Visible {
			continue
		}
		drawMoon(float32(p.X)+rect.X, float32(p.Y)+rect.Y, moon.size, moon.state, moon.tint, bands[0])
	}

	if sun := SunPosition(f, wd, ht); sun.Visible {
		disc := RGBA8(f.Weather.SunDiscColour)
		disc.A = 255
		glare := math.Max(0.15, f.Weather.GlareView)
		rl.DrawCircle(int32(float32(sun.X)+rect.X), int32(float32(sun.Y)+rect.Y), 46, rlColor(Fade(disc, 0.25*glare)))
		rl.DrawCircle(int32(float32(sun.X)+rect.X), int32(float32(sun.Y)+rect.Y), 22, rlColor(disc))
	}

	// Cloud layer: a translucent band tinted by the ambient colour, thicker
	// when the blend is in progress.
	cloud := Mix(RGBA8(f.AmbientColour), RGBA8(f.FogColour), 0.5)
	cloudH := rect.Height * 0.18
	rl.DrawRectangleRec(rl.NewRectangle(rect.X, rect.Y+rect.Height*0.12, rect.Width, cloudH), rlColor(Fade(cloud, 0.35+0.3*f.Weather.CloudBlendFactor)))

	if f.Weather.LightningStrength > 0 {
		rl.DrawRectangleRec(rect, rlColor(Fade(TextPrimary, 0.6*f.Weather.LightningStrength)))
	}
	if f.Weather.RainEffect != "" || f.Weather.ParticleEffect != "" {
		drawPrecipitation(rect, f)
	}
}

func drawMoon(x, y, r float32, s weather.CelestialState, tint, sky color.RGBA) {
	alpha := float32(s.Alpha)
	rl.DrawCircle(int32(x), int32(y), r, rl.Fade(rlColor(tint), alpha))
	lit := float32(MoonLit(s.Phase))
	if lit >= 1 {
		return
	}
	shadow := Mix(sky, color.RGBA{A: 255}, s.ShadowBlend)
	offset := r * 2 * lit
	rl.DrawCircle(int32(x+offset), int32(y), r, rl.Fade(rlColor(shadow), alpha))
}

func drawPrecipitation(rect rl.Rectangle, f Frame) {
	streak := Fade(TextSecondary, 0.45)
	speed := float32(math.Max(f.Weather.RainSpeed, 200))
	t := float32(rl.GetTime())
	slant := float32(f.Weather.WindSpeed * 12)
	for i := 0; i < 90; i++ {
		x := rect.X + float32((i*137)%int(math.Max(1, float64(rect.Width))))
		y := rect.Y + float32(math.Mod(float64(float32(i*53)+t*speed), float64(rect.Height)))
		rl.DrawLineEx(rl.NewVector2(x, y), rl.NewVector2(x-slant, y+14), 1.2, rlColor(streak))
	}
}

func (w *Window) drawPanel(f Frame, rect rl.Rectangle) {
	rl.DrawRectangleRec(rect, rl.Fade(rlColor(Panel), 0.96))
	rl.DrawLineEx(rl.NewVector2(rect.X, rect.Y), rl.NewVector2(rect.X+rect.Width, rect.Y), 2, rlColor(Border))

	split := rect.X + rect.Width*0.45
	x := int32(rect.X) + 14
	y := int32(rect.Y) + 10
	rl.DrawText("WEATHER", x, y, 18, rlColor(AccentEmber))
	y += 26
	for _, line := range splitLines(console.Describe(w.driver)) {
		rl.DrawText(line, x, y, 16, rlColor(TextPrimary))
		y += 20
	}

	lx := int32(split) + 14
	rl.DrawText("CONSOLE", lx, int32(rect.Y)+10, 18, rlColor(AccentEmber))
	rows := int((rect.Height - 70) / 18)
	ly := int32(rect.Y) + 36
	for _, line := range w.history.Tail(rows) {
		rl.DrawText(line, lx, ly, 14, rlColor(TextSecondary))
		ly += 18
	}
	prompt := fmt.Sprintf("> %s_", w.input)
	rl.DrawText(prompt, lx, int32(rect.Y+rect.Height)-28, 18, rlColor(WarningAmber))
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
