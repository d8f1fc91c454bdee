package fallback

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestParseColourTable(t *testing.T) {
	tests := []struct {
		in      string
		want    Colour
		wantErr bool
	}{
		{in: "255,0,0", want: Colour{R: 1, G: 0, B: 0, A: 1}},
		{in: " 0, 255 ,51", want: Colour{R: 0, G: 1, B: 0.2, A: 1}},
		{in: "255,89,00", want: Colour{R: 1, G: 89.0 / 255, B: 0, A: 1}},
		{in: "1,2", wantErr: true},
		{in: "1,2,300", wantErr: true},
		{in: "a,b,c", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseColour(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseColour(%q) expected error, got %+v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseColour(%q) unexpected error: %v", tc.in, err)
		}
		if math.Abs(got.R-tc.want.R) > 1e-9 || math.Abs(got.G-tc.want.G) > 1e-9 || math.Abs(got.B-tc.want.B) > 1e-9 || got.A != 1 {
			t.Fatalf("ParseColour(%q)=%+v want=%+v", tc.in, got, tc.want)
		}
	}
}

func TestColourLerpEndpoints(t *testing.T) {
	a := Colour{R: 0.2, G: 0.4, B: 0.6, A: 1}
	b := Colour{R: 1, G: 0, B: 0.5, A: 0}
	if got := a.Lerp(b, 0); got != a {
		t.Fatalf("expected factor 0 to return start colour, got %+v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Fatalf("expected factor 1 to return end colour, got %+v", got)
	}
	mid := a.Lerp(b, 0.5)
	if math.Abs(mid.R-0.6) > 1e-9 || math.Abs(mid.A-0.5) > 1e-9 {
		t.Fatalf("unexpected midpoint %+v", mid)
	}
}

func TestDefaultsCoverBuiltInWeathers(t *testing.T) {
	s := New(Defaults(), nil)
	for _, name := range []string{"Clear", "Cloudy", "Foggy", "Overcast", "Rain", "Thunderstorm", "Ashstorm", "Blight", "Snow", "Blizzard"} {
		for _, field := range []string{"Cloud_Texture", "Sky_Day_Color", "Wind_Speed", "Transition_Delta", "Clouds_Maximum_Percent", "Using_Precip"} {
			if !s.Has(Key("Weather", name, field)) {
				t.Fatalf("expected default for %s", Key("Weather", name, field))
			}
		}
	}
	if got := s.Float("Weather_Sunrise_Time"); got != 6 {
		t.Fatalf("expected sunrise 6, got %v", got)
	}
	if !s.Bool("Weather_Rain_Using_Precip") {
		t.Fatalf("expected rain to use precipitation")
	}
	if got := s.Setting("fStromWindSpeed", 0); got != 0.7 {
		t.Fatalf("expected storm wind speed 0.7, got %v", got)
	}
	if len(s.Regions()) == 0 {
		t.Fatalf("expected default regions")
	}
}

func TestMissingKeysFallBackToZeroValues(t *testing.T) {
	s := New(Document{}, nil)
	if _, err := s.Value("Weather_Nope_Wind_Speed"); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	if got := s.Float("Weather_Nope_Wind_Speed"); got != 0 {
		t.Fatalf("expected 0 for missing float, got %v", got)
	}
	if got := s.Colour("Weather_Nope_Sky_Day_Color"); got != (Colour{A: 1}) {
		t.Fatalf("expected opaque black for missing colour, got %+v", got)
	}
	if got := s.Setting("fMissing", 1.5); got != 1.5 {
		t.Fatalf("expected default setting, got %v", got)
	}
}

func TestLoadLayersUserFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weather.yaml")
	doc := `
settings:
  fStromWindSpeed: "0.9"
fallback:
  Weather_Clear_Wind_Speed: "0.25"
regions:
  - {id: ascadian isles region, clear: 100}
  - {id: Custom Region, rain: 100}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.Float("Weather_Clear_Wind_Speed"); got != 0.25 {
		t.Fatalf("expected override 0.25, got %v", got)
	}
	if got := s.Float("Weather_Rain_Wind_Speed"); got != 0.3 {
		t.Fatalf("expected untouched default 0.3, got %v", got)
	}
	if got := s.Setting("fStromWindSpeed", 0); got != 0.9 {
		t.Fatalf("expected setting override, got %v", got)
	}

	var ascadian, custom *Region
	regions := s.Regions()
	for i := range regions {
		switch regions[i].ID {
		case "ascadian isles region":
			ascadian = &regions[i]
		case "Custom Region":
			custom = &regions[i]
		}
	}
	if ascadian == nil || ascadian.Clear != 100 || ascadian.Cloudy != 0 {
		t.Fatalf("expected ascadian isles replaced by user table, got %+v", ascadian)
	}
	if custom == nil || custom.Chances()[4] != 100 {
		t.Fatalf("expected custom region appended, got %+v", custom)
	}
	if len(regions) != len(Defaults().Regions)+1 {
		t.Fatalf("expected one extra region, got %d", len(regions))
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}
	if got := s.String("Weather_Clear_Cloud_Texture"); got != "Tx_Sky_Clear.tga" {
		t.Fatalf("unexpected cloud texture %q", got)
	}
}
