package weather

// ambientSound keeps one looped ambience playing, restarting it when the
// resolved loop id changes.
type ambientSound struct {
	player  SoundPlayer
	handle  SoundHandle
	playing string
}

func (a *ambientSound) sync(id string, volume float64) {
	if a.playing != id {
		a.stop()
		if id != "" {
			a.handle = a.player.PlayLoop(id, 1)
		}
		a.playing = id
	}
	if a.handle != nil {
		a.handle.SetVolume(volume)
	}
}

func (a *ambientSound) stop() {
	if a.handle == nil {
		return
	}
	a.player.Stop(a.handle)
	a.handle = nil
	a.playing = ""
}

func (a *ambientSound) Playing() string {
	return a.playing
}
