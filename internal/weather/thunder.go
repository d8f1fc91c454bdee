package weather

const (
	thunderChancePerSecond = 4.0
	thunderInitialNeeded   = 50.0
	thunderSoundDelay      = 0.25
	thunderSoundDone       = 1000.0
)

// thunder accumulates strike chance while a thunderstorm is steady.
type thunder struct {
	threshold float64
	sounds    [4]string

	flash        float64
	chance       float64
	chanceNeeded float64
	soundDelay   float64
}

func newThunder(threshold float64, sounds [4]string) thunder {
	return thunder{
		threshold:    threshold,
		sounds:       sounds,
		chanceNeeded: thunderInitialNeeded,
		soundDelay:   thunderSoundDelay,
	}
}

// update advances by dt real seconds and returns the sound to play, if any.
func (t *thunder) update(dt float64, src RandomSource) string {
	if t.flash <= 0 {
		t.chance += dt * thunderChancePerSecond
		if t.chance >= t.chanceNeeded {
			t.flash = t.threshold
			t.soundDelay = thunderSoundDelay
		}
		return ""
	}

	sound := ""
	t.soundDelay -= dt
	if t.soundDelay <= 0 {
		sound = t.sounds[rollDice(src, len(t.sounds))]
		t.soundDelay = thunderSoundDone
	}

	t.flash -= dt
	if t.flash <= 0 {
		t.flash = 0
		t.chanceNeeded = float64(rollPercent(src))
		t.chance = 0
	}
	return sound
}

// strength is the lightning intensity in [0,1].
func (t *thunder) strength() float64 {
	if t.flash <= 0 || t.threshold <= 0 {
		return 0
	}
	return min(t.flash/t.threshold, 1)
}

func (t *thunder) reset() {
	t.flash = 0
	t.chance = 0
	t.chanceNeeded = thunderInitialNeeded
	t.soundDelay = thunderSoundDelay
}
