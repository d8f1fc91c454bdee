package world

import "math"

// DefaultTimescale is game seconds per real second.
const DefaultTimescale = 30.0

// Clock tracks the in-game day and hour.
type Clock struct {
	day       int
	hour      float64
	timescale float64
}

func NewClock(day int, hour, timescale float64) *Clock {
	if timescale <= 0 {
		timescale = DefaultTimescale
	}
	c := &Clock{day: day, timescale: timescale}
	c.AdvanceHours(hour)
	return c
}

func (c *Clock) Day() int           { return c.day }
func (c *Clock) Hour() float64      { return c.hour }
func (c *Clock) Timescale() float64 { return c.timescale }

func (c *Clock) SetTimescale(ts float64) {
	if ts > 0 {
		c.timescale = ts
	}
}

// Advance moves the clock by real seconds and returns the game hours passed.
func (c *Clock) Advance(realSeconds float64) float64 {
	if realSeconds <= 0 {
		return 0
	}
	hours := realSeconds * c.timescale / 3600
	c.AdvanceHours(hours)
	return hours
}

// AdvanceHours moves the clock forward, rolling over into later days.
func (c *Clock) AdvanceHours(hours float64) {
	if hours <= 0 {
		return
	}
	total := c.hour + hours
	days := math.Floor(total / 24)
	c.day += int(days)
	c.hour = total - days*24
}
