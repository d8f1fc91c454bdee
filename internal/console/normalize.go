package console

import (
	"strconv"
	"strings"
)

// normaliseInput lowercases and keeps letters, digits, dots and single
// spaces. Separators such as '-', '_' and apostrophes become spaces.
func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' || r == ',' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

// parseHours reads "8", "8h", "1.5hours" or "30m" as game hours.
func parseHours(token string) (float64, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return 0, false
	}
	scale := 1.0
	for _, suffix := range []string{"hours", "hour", "hrs", "hr", "h"} {
		if strings.HasSuffix(token, suffix) {
			token = strings.TrimSuffix(token, suffix)
			break
		}
	}
	for _, suffix := range []string{"minutes", "mins", "min", "m"} {
		if strings.HasSuffix(token, suffix) {
			token = strings.TrimSuffix(token, suffix)
			scale = 1.0 / 60
			break
		}
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v * scale, true
}

func isInteriorFlag(token string) bool {
	switch token {
	case "inside", "interior", "indoors", "in":
		return true
	default:
		return false
	}
}
