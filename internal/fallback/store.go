package fallback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var ErrMissingKey = errors.New("fallback key not found")

// Colour is a normalised RGBA colour. Components are nominally in [0,1].
type Colour struct {
	R, G, B, A float64
}

func (c Colour) Lerp(to Colour, factor float64) Colour {
	inv := 1 - factor
	return Colour{
		R: c.R*inv + to.R*factor,
		G: c.G*inv + to.G*factor,
		B: c.B*inv + to.B*factor,
		A: c.A*inv + to.A*factor,
	}
}

// Key joins the parts of a fallback name, e.g. Key("Weather", "Clear", "Wind_Speed").
func Key(category, name, field string) string {
	return category + "_" + name + "_" + field
}

// Store answers typed lookups against the flat fallback table. Missing keys
// resolve to zero values and are reported once through the logger.
type Store struct {
	settings map[string]string
	values   map[string]string
	regions  []Region
	logger   *zap.Logger

	mu     sync.Mutex
	warned map[string]bool
}

func New(doc Document, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		settings: make(map[string]string, len(doc.Settings)),
		values:   make(map[string]string, len(doc.Fallback)),
		regions:  append([]Region(nil), doc.Regions...),
		logger:   logger,
		warned:   make(map[string]bool),
	}
	for k, v := range doc.Settings {
		s.settings[k] = v
	}
	for k, v := range doc.Fallback {
		s.values[k] = v
	}
	return s
}

// Value returns the raw string for key.
func (s *Store) Value(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	return v, nil
}

func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *Store) String(key string) string {
	v, err := s.Value(key)
	if err != nil {
		s.warnMissing(key, "")
		return ""
	}
	return strings.TrimSpace(v)
}

func (s *Store) Float(key string) float64 {
	v, err := s.Value(key)
	if err != nil {
		s.warnMissing(key, "0")
		return 0
	}
	f, err := parseFloat(v)
	if err != nil {
		s.warnInvalid(key, v, err)
		return 0
	}
	return f
}

func (s *Store) Bool(key string) bool {
	v, err := s.Value(key)
	if err != nil {
		s.warnMissing(key, "false")
		return false
	}
	b, err := parseBool(v)
	if err != nil {
		s.warnInvalid(key, v, err)
		return false
	}
	return b
}

func (s *Store) Colour(key string) Colour {
	v, err := s.Value(key)
	if err != nil {
		s.warnMissing(key, "0,0,0")
		return Colour{A: 1}
	}
	c, err := ParseColour(v)
	if err != nil {
		s.warnInvalid(key, v, err)
		return Colour{A: 1}
	}
	return c
}

// Setting reads a numeric game setting, returning def when it is absent or malformed.
func (s *Store) Setting(name string, def float64) float64 {
	v, ok := s.settings[name]
	if !ok {
		s.warnMissing(name, strconv.FormatFloat(def, 'g', -1, 64))
		return def
	}
	f, err := parseFloat(v)
	if err != nil {
		s.warnInvalid(name, v, err)
		return def
	}
	return f
}

// Regions returns a copy of the static per-region base chance tables.
func (s *Store) Regions() []Region {
	return append([]Region(nil), s.regions...)
}

func (s *Store) warnMissing(key, def string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	s.logger.Warn("fallback value missing", zap.String("key", key), zap.String("default", def))
}

func (s *Store) warnInvalid(key, raw string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	s.logger.Warn("fallback value malformed", zap.String("key", key), zap.String("raw", raw), zap.Error(err))
}

func parseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool %q", raw)
	}
}

// ParseColour reads an "R,G,B" triple in 0-255 and normalises it.
func ParseColour(raw string) (Colour, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return Colour{}, fmt.Errorf("colour %q: expected 3 components, got %d", raw, len(parts))
	}
	var rgb [3]float64
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Colour{}, fmt.Errorf("colour %q: %w", raw, err)
		}
		if n < 0 || n > 255 {
			return Colour{}, fmt.Errorf("colour %q: component %d out of range", raw, n)
		}
		rgb[i] = float64(n) / 255
	}
	return Colour{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}, nil
}
