package weather

// RegionWeather is the mutable chance table and selected weather of a region.
// Weights are expected to sum to 100; the table is not validated.
type RegionWeather struct {
	weather Slot
	chances []int
}

func NewRegionWeather(chances []int) *RegionWeather {
	return &RegionWeather{chances: append([]int(nil), chances...)}
}

// RestoreRegionWeather rebuilds a region from saved state.
func RestoreRegionWeather(selected Slot, chances []int) *RegionWeather {
	return &RegionWeather{weather: selected, chances: append([]int(nil), chances...)}
}

// SetChances overwrites weights element-wise, growing the table when needed.
// A selection the new table no longer supports is cleared.
func (r *RegionWeather) SetChances(chances []int) {
	if len(chances) > len(r.chances) {
		grown := make([]int, len(chances))
		copy(grown, r.chances)
		r.chances = grown
	}
	copy(r.chances, chances)

	if id, ok := r.weather.Get(); ok {
		if int(id) >= len(r.chances) || r.chances[id] == 0 {
			r.weather = None
		}
	}
}

func (r *RegionWeather) SetWeather(id ID) {
	r.weather = Some(id)
}

// Invalidate clears the selection so the next Weather call rolls again.
func (r *RegionWeather) Invalidate() {
	r.weather = None
}

// Weather returns the selected weather, rolling a new one when unset.
func (r *RegionWeather) Weather(src RandomSource) ID {
	if id, ok := r.weather.Get(); ok {
		return id
	}
	id := r.choose(src)
	r.weather = Some(id)
	return id
}

// Selected returns the current selection without rolling.
func (r *RegionWeather) Selected() Slot {
	return r.weather
}

func (r *RegionWeather) Chances() []int {
	return append([]int(nil), r.chances...)
}

func (r *RegionWeather) choose(src RandomSource) ID {
	if len(r.chances) == 0 {
		return Clear
	}
	roll := rollPercent(src)
	sum := 0
	for i, c := range r.chances {
		sum += c
		if roll <= sum {
			return ID(i)
		}
	}
	return ID(len(r.chances) - 1)
}
