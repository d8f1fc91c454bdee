package weather

import "strings"

// ID indexes a weather profile. The built-in profiles occupy 0..Count-1.
type ID int

const (
	Clear ID = iota
	Cloudy
	Foggy
	Overcast
	Rain
	Thunderstorm
	Ashstorm
	Blight
	Snow
	Blizzard

	Count
)

var idNames = [...]string{
	Clear:        "Clear",
	Cloudy:       "Cloudy",
	Foggy:        "Foggy",
	Overcast:     "Overcast",
	Rain:         "Rain",
	Thunderstorm: "Thunderstorm",
	Ashstorm:     "Ashstorm",
	Blight:       "Blight",
	Snow:         "Snow",
	Blizzard:     "Blizzard",
}

func (id ID) String() string {
	if id.Valid() {
		return idNames[id]
	}
	return "Unknown"
}

func (id ID) Valid() bool {
	return id >= 0 && id < Count
}

// ParseID resolves a weather name case-insensitively.
func ParseID(name string) (ID, bool) {
	name = strings.TrimSpace(name)
	for i, n := range idNames {
		if strings.EqualFold(n, name) {
			return ID(i), true
		}
	}
	return 0, false
}

// Names lists the built-in profile names ordered by ID.
func Names() []string {
	return append([]string(nil), idNames[:]...)
}

// Slot holds an optional weather ID. The zero value is empty.
type Slot struct {
	id ID
	ok bool
}

// None is the empty slot.
var None = Slot{}

func Some(id ID) Slot {
	return Slot{id: id, ok: true}
}

func (s Slot) Get() (ID, bool) {
	return s.id, s.ok
}

func (s Slot) IsSome() bool {
	return s.ok
}

func (s Slot) Or(def ID) ID {
	if s.ok {
		return s.id
	}
	return def
}

// Int encodes the slot for storage, with -1 for an empty slot.
func (s Slot) Int() int {
	if !s.ok {
		return -1
	}
	return int(s.id)
}

// SlotFromInt decodes Int. Negative values are empty.
func SlotFromInt(v int) Slot {
	if v < 0 {
		return None
	}
	return Some(ID(v))
}

func (s Slot) String() string {
	if !s.ok {
		return "none"
	}
	return s.id.String()
}
