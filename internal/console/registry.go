package console

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	order    []string
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]CommandDef)}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	if _, exists := r.commands[c.Canonical]; !exists {
		r.order = append(r.order, c.Canonical)
	}
	r.commands[c.Canonical] = c

	r.phrases = append(r.phrases, commandPhrase{
		canonical: c.Canonical,
		alias:     c.Canonical,
		tokens:    tokenise(c.Canonical),
	})
	for _, a := range c.Aliases {
		n := normaliseInput(a)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, commandPhrase{
			canonical: c.Canonical,
			alias:     n,
			tokens:    tokenise(n),
		})
	}
}

func (r *Registry) Command(canonical string) (CommandDef, bool) {
	cmd, ok := r.commands[normaliseInput(canonical)]
	return cmd, ok
}

// Commands returns definitions in registration order.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

type commandCandidate struct {
	Canonical string
	Consumed  int
	Score     float64
}

// matchCommand scores every phrase against the leading tokens: exact and
// alias hits first, then single-word prefixes, then edit distance.
func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	if len(tokens) == 0 {
		return commandCandidate{}, nil
	}
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		if len(phrase.tokens) == 0 || len(tokens) < len(phrase.tokens) {
			continue
		}
		consumed := len(phrase.tokens)
		prefix := strings.Join(tokens[:consumed], " ")

		if prefix == phrase.alias {
			score := 1.0
			if phrase.alias != phrase.canonical {
				score = 0.97
			}
			cands = append(cands, commandCandidate{Canonical: phrase.canonical, Consumed: consumed, Score: score})
			continue
		}

		if consumed == 1 && len(tokens[0]) >= 3 && strings.HasPrefix(phrase.alias, tokens[0]) {
			cands = append(cands, commandCandidate{Canonical: phrase.canonical, Consumed: 1, Score: 0.9})
			continue
		}

		if len(prefix) < 3 {
			continue
		}
		dist := levenshtein.ComputeDistance(prefix, phrase.alias)
		if dist > levenshteinLimit(len(phrase.alias)) {
			continue
		}
		score := 0.72 - (0.08 * float64(dist))
		if phrase.alias != phrase.canonical {
			score += 0.03
		}
		cands = append(cands, commandCandidate{Canonical: phrase.canonical, Consumed: consumed, Score: score})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			if cands[i].Consumed == cands[j].Consumed {
				return cands[i].Canonical < cands[j].Canonical
			}
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Score > cands[j].Score
	})
	if len(cands) == 0 {
		return commandCandidate{}, nil
	}

	best := cands[0]
	alts := make([]commandCandidate, 0, 3)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) >= 3 {
			break
		}
	}
	return best, alts
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "help", Aliases: []string{"h", "?", "commands"}, MaxArgs: -1, Usage: "help", Summary: "list commands"},
		{Canonical: "status", Aliases: []string{"st", "weather", "sky"}, MaxArgs: -1, Usage: "status", Summary: "show current weather, transition and sky"},
		{Canonical: "changeweather", Aliases: []string{"change weather", "cw", "set weather"}, MinArgs: 2, MaxArgs: -1, Usage: "changeweather <region> <weather>", Summary: "pin a region's weather"},
		{Canonical: "modregion", Aliases: []string{"mod region", "mr"}, MinArgs: 2, MaxArgs: -1, Usage: "modregion <region> <clear> <cloudy> ... <blizzard>", Summary: "replace a region's chance table"},
		{Canonical: "advance", Aliases: []string{"pass", "pass time"}, MinArgs: 1, MaxArgs: 2, Usage: "advance <hours>", Summary: "let game time run"},
		{Canonical: "wait", Aliases: []string{"sleep", "rest"}, MinArgs: 1, MaxArgs: 2, Usage: "wait <hours>", Summary: "skip time, completing transitions"},
		{Canonical: "teleport", Aliases: []string{"tp", "coc", "travel", "goto"}, MinArgs: 1, MaxArgs: -1, Usage: "teleport <region> [inside]", Summary: "move the player to a region"},
		{Canonical: "outside", Aliases: []string{"exterior", "go outside"}, Usage: "outside", Summary: "step into an exterior cell"},
		{Canonical: "inside", Aliases: []string{"interior", "go inside"}, Usage: "inside", Summary: "step into an interior cell"},
		{Canonical: "pause", Usage: "pause", Summary: "freeze game time"},
		{Canonical: "resume", Aliases: []string{"unpause"}, Usage: "resume", Summary: "unfreeze game time"},
		{Canonical: "timescale", Aliases: []string{"ts"}, MinArgs: 1, MaxArgs: 1, Usage: "timescale <n>", Summary: "game seconds per real second"},
		{Canonical: "regions", Aliases: []string{"list regions"}, Usage: "regions", Summary: "list regions and their chances"},
		{Canonical: "weathers", Aliases: []string{"list weathers", "profiles"}, Usage: "weathers", Summary: "list weather types"},
		{Canonical: "save", MaxArgs: 1, Usage: "save [slot]", Summary: "save the weather state"},
		{Canonical: "load", MaxArgs: 1, Usage: "load [slot]", Summary: "load the weather state"},
		{Canonical: "reset", Aliases: []string{"clear"}, Usage: "reset", Summary: "start over with default weather"},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
