package fallback

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Document mirrors the YAML schema of a weather configuration file.
type Document struct {
	Settings map[string]string `yaml:"settings"`
	Fallback map[string]string `yaml:"fallback"`
	Regions  []Region          `yaml:"regions"`
}

// Region is the static base chance table of one region, one weight per
// built-in weather type. Weights are expected to sum to 100.
type Region struct {
	ID       string `yaml:"id"`
	Clear    int    `yaml:"clear"`
	Cloudy   int    `yaml:"cloudy"`
	Foggy    int    `yaml:"foggy"`
	Overcast int    `yaml:"overcast"`
	Rain     int    `yaml:"rain"`
	Thunder  int    `yaml:"thunder"`
	Ash      int    `yaml:"ash"`
	Blight   int    `yaml:"blight"`
	Snow     int    `yaml:"snow"`
	Blizzard int    `yaml:"blizzard"`
}

// Chances returns the weights ordered by weather id.
func (r Region) Chances() []int {
	return []int{r.Clear, r.Cloudy, r.Foggy, r.Overcast, r.Rain, r.Thunder, r.Ash, r.Blight, r.Snow, r.Blizzard}
}

// Parse decodes a YAML document.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse weather config: %w", err)
	}
	return doc, nil
}

// Defaults returns the embedded default document.
func Defaults() Document {
	doc, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded weather defaults: %v", err))
	}
	return doc
}

// Load reads path and layers it over the embedded defaults. An empty path or a
// missing file yields the defaults alone.
func Load(path string, logger *zap.Logger) (*Store, error) {
	doc := Defaults()
	if strings.TrimSpace(path) != "" {
		user, err := readYAML(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		doc = Merge(doc, user)
	}
	return New(doc, logger), nil
}

// readYAML loads a YAML file. Missing files return a zero document, no error.
func readYAML(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, nil
		}
		return Document{}, err
	}
	return Parse(b)
}

// Merge overlays b on a: keys in b win, regions in b replace regions of a
// with the same (case-insensitive) id and new ones are appended.
func Merge(a, b Document) Document {
	out := Document{
		Settings: make(map[string]string, len(a.Settings)+len(b.Settings)),
		Fallback: make(map[string]string, len(a.Fallback)+len(b.Fallback)),
	}
	for k, v := range a.Settings {
		out.Settings[k] = v
	}
	for k, v := range b.Settings {
		out.Settings[k] = v
	}
	for k, v := range a.Fallback {
		out.Fallback[k] = v
	}
	for k, v := range b.Fallback {
		out.Fallback[k] = v
	}

	out.Regions = append([]Region(nil), a.Regions...)
	index := make(map[string]int, len(out.Regions))
	for i, r := range out.Regions {
		index[strings.ToLower(r.ID)] = i
	}
	for _, r := range b.Regions {
		key := strings.ToLower(r.ID)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			out.Regions[i] = r
			continue
		}
		index[key] = len(out.Regions)
		out.Regions = append(out.Regions, r)
	}
	return out
}
