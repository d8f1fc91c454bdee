package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/appengine-ltd/skyweather/internal/weather"
)

type Parser struct {
	registry *Registry
}

func NewParser() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) Registry() *Registry { return p.registry }

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

// Parse maps a line to a verb and its argument tokens. Lines that match no
// verb, or two verbs almost equally well, come back with an empty Verb and
// the closest verbs as Suggestions.
func (p *Parser) Parse(raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
	}
	if intent.Normalised == "" {
		return intent
	}

	tokens := tokenise(intent.Normalised)
	best, alternates := p.registry.matchCommand(tokens)
	if best.Canonical == "" || best.Score < 0.5 {
		return intent
	}

	if len(alternates) > 0 && (best.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.6 {
		intent.Suggestions = []string{best.Canonical, alternates[0].Canonical}
		return intent
	}

	intent.Verb = best.Canonical
	intent.Confidence = clampScore(best.Score)
	if best.Consumed < len(tokens) {
		intent.Args = tokens[best.Consumed:]
	}
	if best.Score < 1 {
		for _, alt := range alternates {
			intent.Suggestions = append(intent.Suggestions, alt.Canonical)
		}
	}
	return intent
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// AmbiguousError reports a name that matched several candidates equally well.
type AmbiguousError struct {
	Query   string
	Options []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q is ambiguous: %s", e.Query, strings.Join(e.Options, ", "))
}

type nameMatch struct {
	value string
	score float64
}

// resolveName finds the candidate closest to query. Candidates are compared
// in normalised form, with and without a trailing " region".
func resolveName(query string, candidates []string) (string, error) {
	q := normaliseInput(query)
	if q == "" {
		return "", fmt.Errorf("empty name")
	}
	matches := make([]nameMatch, 0, len(candidates))
	for _, cand := range candidates {
		if score, ok := scoreName(q, cand); ok {
			matches = append(matches, nameMatch{value: cand, score: score})
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no match for %q", query)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].value < matches[j].value
		}
		return matches[i].score > matches[j].score
	})
	best := matches[0]
	if len(matches) > 1 && best.score < 1 && (best.score-matches[1].score) < 0.05 && matches[1].score > 0.6 {
		return "", &AmbiguousError{Query: query, Options: []string{best.value, matches[1].value}}
	}
	return best.value, nil
}

func scoreName(q, candidate string) (float64, bool) {
	full := normaliseInput(candidate)
	short := strings.TrimSuffix(full, " region")
	switch {
	case q == full:
		return 1, true
	case q == short:
		return 0.98, true
	case len(q) >= 3 && strings.HasPrefix(full, q):
		return 0.9, true
	}
	dist := levenshtein.ComputeDistance(q, short)
	if d := levenshtein.ComputeDistance(q, full); d < dist {
		dist = d
	}
	if len(q) < 3 || dist > levenshteinLimit(len(short)) {
		return 0, false
	}
	return 0.72 - (0.08 * float64(dist)), true
}

var weatherAliases = map[string]weather.ID{
	"sun":     weather.Clear,
	"sunny":   weather.Clear,
	"clouds":  weather.Cloudy,
	"fog":     weather.Foggy,
	"mist":    weather.Foggy,
	"grey":    weather.Overcast,
	"rainy":   weather.Rain,
	"storm":   weather.Thunderstorm,
	"thunder": weather.Thunderstorm,
	"ash":     weather.Ashstorm,
	"snowy":   weather.Snow,
}

// resolveWeather accepts a weather name, a common alias or a numeric id.
func resolveWeather(query string) (weather.ID, error) {
	q := normaliseInput(query)
	if n, err := strconv.Atoi(q); err == nil {
		id := weather.ID(n)
		if !id.Valid() {
			return 0, fmt.Errorf("%w: %d", weather.ErrUnknownWeather, n)
		}
		return id, nil
	}
	if id, ok := weatherAliases[q]; ok {
		return id, nil
	}
	name, err := resolveName(q, weather.Names())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", weather.ErrUnknownWeather, err)
	}
	id, _ := weather.ParseID(name)
	return id, nil
}
