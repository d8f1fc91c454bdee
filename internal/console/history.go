package console

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// History keeps the most recent console messages, oldest first.
type History struct {
	lines []string
	max   int
	now   func() time.Time
}

func NewHistory(max int) *History {
	if max < 1 {
		max = 260
	}
	return &History{max: max, now: time.Now}
}

// Append adds each non-blank line of message with a wall-clock prefix.
func (h *History) Append(message string) {
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimRight(line, " ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		h.lines = append(h.lines, fmt.Sprintf("[%s] %s", h.now().Format("15:04:05"), line))
	}
	if len(h.lines) > h.max {
		h.lines = append([]string(nil), h.lines[len(h.lines)-h.max:]...)
	}
}

// Tail returns up to n of the newest lines.
func (h *History) Tail(n int) []string {
	if n <= 0 || len(h.lines) == 0 {
		return nil
	}
	if n > len(h.lines) {
		n = len(h.lines)
	}
	return append([]string(nil), h.lines[len(h.lines)-n:]...)
}

func (h *History) Len() int { return len(h.lines) }

// Submit runs line through c and records both the command and its outcome.
func (h *History) Submit(ctx context.Context, c *Console, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	h.Append("> " + line)
	out, err := c.Execute(ctx, line)
	if err != nil {
		h.Append("! " + err.Error())
		return
	}
	h.Append(out)
}
