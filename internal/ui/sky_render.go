package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/appengine-ltd/skyweather/internal/render"
	"github.com/appengine-ltd/skyweather/internal/weather"
)

// renderSkyANSI paints the frame into a small image and prints it with
// half-block characters, two pixel rows per text row.
func renderSkyANSI(f render.Frame, widthChars, heightRows int) string {
	widthChars = clampInt(widthChars, 8, 120)
	heightRows = clampInt(heightRows, 4, 60)

	w := widthChars
	h := heightRows * 2
	dc := gg.NewContext(w, h)

	bands := render.SkyBands(f, 8)
	grad := gg.NewLinearGradient(0, 0, 0, float64(h))
	for i, c := range bands {
		grad.AddColorStop(float64(i)/float64(len(bands)-1), c)
	}
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	if !f.SkyEnabled {
		return rgbaImageToANSIHalfBlocks(dc.Image())
	}

	fw, fh := float64(w), float64(h)
	moons := []struct {
		state weather.CelestialState
		tint  color.RGBA
		r     float64
	}{
		{f.Masser, render.MoonMasser, fh * 0.09},
		{f.Secunda, render.MoonSecunda, fh * 0.06},
	}
	for _, moon := range moons {
		s := moon.state
		p := render.MoonPosition(s, fw, fh)
		if !p.Visible {
			continue
		}
		lit := render.MoonLit(s.Phase)
		if lit <= 0 {
			continue
		}
		dc.SetColor(render.Fade(moon.tint, s.Alpha))
		dc.DrawCircle(p.X, p.Y, math.Max(1, moon.r))
		dc.Fill()
		if lit < 1 {
			dc.SetColor(render.Fade(bands[0], s.Alpha))
			dc.DrawCircle(p.X+moon.r*2*lit, p.Y, math.Max(1, moon.r))
			dc.Fill()
		}
	}

	if sun := render.SunPosition(f, fw, fh); sun.Visible {
		disc := render.RGBA8(f.Weather.SunDiscColour)
		disc.A = 255
		r := math.Max(1.5, fh*0.1)
		glow := gg.NewRadialGradient(sun.X, sun.Y, r*0.4, sun.X, sun.Y, r*2.2)
		glow.AddColorStop(0, render.Fade(disc, 0.6))
		glow.AddColorStop(1, render.Fade(disc, 0))
		dc.SetFillStyle(glow)
		dc.DrawCircle(sun.X, sun.Y, r*2.2)
		dc.Fill()
		dc.SetColor(disc)
		dc.DrawCircle(sun.X, sun.Y, r)
		dc.Fill()
	}

	cloud := render.Mix(render.RGBA8(f.AmbientColour), render.RGBA8(f.FogColour), 0.5)
	dc.SetColor(render.Fade(cloud, 0.3+0.3*f.Weather.CloudBlendFactor))
	dc.DrawRectangle(0, fh*0.15, fw, fh*0.2)
	dc.Fill()

	if f.Weather.RainEffect != "" || f.Weather.ParticleEffect != "" {
		dc.SetColor(render.Fade(render.TextSecondary, 0.5))
		dc.SetLineWidth(1)
		slant := f.Weather.WindSpeed * 3
		for x := 1.0; x < fw; x += 4 {
			y := math.Mod(x*7, fh)
			dc.DrawLine(x, y, x-slant, y+3)
			dc.Stroke()
		}
	}

	if f.Weather.LightningStrength > 0 {
		dc.SetColor(render.Fade(render.TextPrimary, 0.6*f.Weather.LightningStrength))
		dc.DrawRectangle(0, 0, fw, fh)
		dc.Fill()
	}

	return rgbaImageToANSIHalfBlocks(dc.Image())
}

func rgbaImageToANSIHalfBlocks(img image.Image) string {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return ""
	}

	var out strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			tr, tg, tb, ta := rgba8(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			br, bg, bb, ba := uint8(0), uint8(0), uint8(0), uint8(0)
			if y+1 < height {
				br, bg, bb, ba = rgba8(img.At(bounds.Min.X+x, bounds.Min.Y+y+1))
			}

			if ta < 8 && ba < 8 {
				out.WriteByte(' ')
				continue
			}

			fmt.Fprintf(&out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
		}
		out.WriteString("\x1b[0m\n")
	}
	return strings.TrimRight(out.String(), "\n")
}

func rgba8(c color.Color) (r, g, b, a uint8) {
	r16, g16, b16, a16 := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), uint8(a16 >> 8)
}
