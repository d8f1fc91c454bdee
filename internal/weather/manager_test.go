package weather

import (
	"errors"
	"math"
	"testing"

	"github.com/appengine-ltd/skyweather/internal/fallback"
)

type stubWorld struct {
	hour     float64
	day      int
	region   string
	inCell   bool
	exterior bool
	pos      Vec3
}

func (w *stubWorld) Hour() float64        { return w.hour }
func (w *stubWorld) Day() int             { return w.day }
func (w *stubWorld) PlayerRegion() string { return w.region }
func (w *stubWorld) InCell() bool         { return w.inCell }
func (w *stubWorld) IsExterior() bool     { return w.exterior }
func (w *stubWorld) PlayerPosition() Vec3 { return w.pos }

type recordingRenderer struct {
	nopRenderer
	skyCalls    []bool
	weatherSets int
	storm       Vec3
	last        Result
}

func (r *recordingRenderer) SetSkyEnabled(enabled bool) { r.skyCalls = append(r.skyCalls, enabled) }
func (r *recordingRenderer) SetStormDirection(dir Vec3) { r.storm = dir }
func (r *recordingRenderer) SetWeather(res Result) {
	r.weatherSets++
	r.last = res
}

type handle struct {
	id     string
	volume float64
}

func (h *handle) SetVolume(v float64) { h.volume = v }

type recordingSound struct {
	loops   []string
	once    []string
	stopped []string
	current *handle
}

func (s *recordingSound) PlayLoop(id string, volume float64) SoundHandle {
	s.loops = append(s.loops, id)
	s.current = &handle{id: id, volume: volume}
	return s.current
}

func (s *recordingSound) PlayOnce(id string, volume float64) { s.once = append(s.once, id) }

func (s *recordingSound) Stop(h SoundHandle) {
	s.stopped = append(s.stopped, h.(*handle).id)
	s.current = nil
}

const ascadian = "Ascadian Isles Region"

func newTestManager(t *testing.T, world *stubWorld, src RandomSource) (*Manager, *recordingRenderer, *recordingSound) {
	t.Helper()
	doc := fallback.Defaults()
	doc.Fallback["Weather_Rain_Transition_Delta"] = "0.1"
	doc.Regions = []fallback.Region{
		{ID: ascadian, Clear: 50, Cloudy: 50},
		{ID: "Bitter Coast Region", Rain: 100},
		{ID: "Stormy Region", Thunder: 100},
	}
	rend := &recordingRenderer{}
	snd := &recordingSound{}
	m := NewManager(Config{
		Store:    fallback.New(doc, nil),
		World:    world,
		Renderer: rend,
		Sound:    snd,
		Random:   src,
	})
	return m, rend, snd
}

func exteriorWorld(region string) *stubWorld {
	return &stubWorld{hour: 12, day: 1, region: region, inCell: true, exterior: true}
}

func TestManagerStartsOnClear(t *testing.T) {
	m, _, _ := newTestManager(t, exteriorWorld(""), percentRolls(1))
	if m.WeatherID() != Clear {
		t.Fatalf("expected Clear, got %s", m.WeatherID())
	}
	if len(m.Profiles()) != int(Count) {
		t.Fatalf("expected %d profiles, got %d", Count, len(m.Profiles()))
	}
}

func TestManagerEnteringRegionStartsTransition(t *testing.T) {
	world := exteriorWorld("bitter coast region")
	m, _, _ := newTestManager(t, world, percentRolls(1))

	m.Update(0, false)
	st := m.Status()
	if next, ok := st.Next.Get(); !ok || next != Rain {
		t.Fatalf("expected transition toward Rain, got next=%v", st.Next)
	}
	if st.Region != "bitter coast region" {
		t.Fatalf("expected tracked region, got %q", st.Region)
	}

	// Rain's delta is 0.1 per second.
	m.Update(10.5, false)
	if m.WeatherID() != Rain || m.Status().Next.IsSome() {
		t.Fatalf("expected steady Rain, got current=%s next=%v", m.WeatherID(), m.Status().Next)
	}
}

func TestManagerChangeWeatherQueuesWhileTransitioning(t *testing.T) {
	world := exteriorWorld(ascadian)
	m, _, _ := newTestManager(t, world, percentRolls(80))

	m.Update(0, false)
	if next, ok := m.Status().Next.Get(); !ok || next != Cloudy {
		t.Fatalf("expected transition toward Cloudy, got %v", m.Status().Next)
	}

	for _, id := range []ID{Foggy, Overcast, Snow} {
		if err := m.ChangeWeather("ASCADIAN ISLES REGION", id); err != nil {
			t.Fatalf("change weather: %v", err)
		}
	}
	if q, ok := m.Status().Queued.Get(); !ok || q != Snow {
		t.Fatalf("expected Snow queued, got %v", m.Status().Queued)
	}

	m.AdvanceTime(8, false)
	m.Update(0.01, true)
	if m.WeatherID() != Snow || m.Status().Next.IsSome() || m.Status().Factor != 0 {
		t.Fatalf("expected fast-forward to Snow, got %+v", m.Status())
	}
}

func TestManagerChangeWeatherErrors(t *testing.T) {
	m, _, _ := newTestManager(t, exteriorWorld(ascadian), percentRolls(1))
	if err := m.ChangeWeather("Nowhere", Rain); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
	if err := m.ChangeWeather(ascadian, Count); !errors.Is(err, ErrUnknownWeather) {
		t.Fatalf("expected ErrUnknownWeather, got %v", err)
	}
	if err := m.ModRegion("Nowhere", []int{100}); !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
	r, _ := m.Region(ascadian)
	if r.Weather.IsSome() || m.Status().Next.IsSome() {
		t.Fatalf("expected ignored requests to leave state alone, got %+v %+v", r, m.Status())
	}
}

func TestManagerChangeWeatherElsewhereOnlyStores(t *testing.T) {
	world := exteriorWorld(ascadian)
	m, _, _ := newTestManager(t, world, percentRolls(1))
	m.Update(0, false)

	if err := m.ChangeWeather("Bitter Coast Region", Blizzard); err != nil {
		t.Fatalf("change weather: %v", err)
	}
	if m.Status().Next.IsSome() {
		t.Fatalf("expected no transition for another region, got %v", m.Status().Next)
	}
	rs, _ := m.Region("bitter coast region")
	if got, ok := rs.Weather.Get(); !ok || got != Blizzard {
		t.Fatalf("expected stored Blizzard, got %v", rs.Weather)
	}
}

func TestManagerModRegionRerollsCurrentRegion(t *testing.T) {
	world := exteriorWorld(ascadian)
	m, _, _ := newTestManager(t, world, percentRolls(10))
	m.Update(0, false)
	if m.Status().Next.IsSome() {
		t.Fatalf("expected Clear roll to need no transition")
	}

	if err := m.ModRegion(ascadian, []int{0, 0, 0, 0, 100}); err != nil {
		t.Fatalf("mod region: %v", err)
	}
	if next, ok := m.Status().Next.Get(); !ok || next != Rain {
		t.Fatalf("expected transition toward Rain, got %v", m.Status().Next)
	}
}

func TestManagerRerollAfterCountdown(t *testing.T) {
	world := exteriorWorld(ascadian)
	src := percentRolls(10, 90)
	m, _, _ := newTestManager(t, world, src)
	m.Update(0, false)

	m.AdvanceTime(19, true)
	m.Update(0, false)
	if src.calls != 1 {
		t.Fatalf("expected no reroll before the countdown lapses, got %d rolls", src.calls)
	}
	m.AdvanceTime(1, true)
	m.Update(0, false)
	if src.calls != 2 {
		t.Fatalf("expected a reroll once the countdown lapses, got %d rolls", src.calls)
	}
	if next, ok := m.Status().Next.Get(); !ok || next != Cloudy {
		t.Fatalf("expected transition toward Cloudy, got %v", m.Status().Next)
	}
	if got := m.Status().HoursUntilChange; got != 20 {
		t.Fatalf("expected countdown reset to 20, got %v", got)
	}
}

func TestManagerPausedSkipsRegionCheck(t *testing.T) {
	world := exteriorWorld("bitter coast region")
	m, _, _ := newTestManager(t, world, percentRolls(1))
	m.Update(1, true)
	if m.Status().Next.IsSome() || m.Status().Region != "" {
		t.Fatalf("expected paused update to skip region tracking, got %+v", m.Status())
	}
}

func TestManagerInteriorStopsSoundAndDisablesSky(t *testing.T) {
	world := exteriorWorld("bitter coast region")
	m, rend, snd := newTestManager(t, world, percentRolls(1))
	m.Update(0, false)
	m.Update(20, false)
	if len(snd.loops) != 1 || snd.loops[0] != "rain" {
		t.Fatalf("expected rain loop to start, got %v", snd.loops)
	}

	world.exterior = false
	rend.skyCalls = nil
	sets := rend.weatherSets
	m.Update(0.1, false)

	if len(snd.stopped) != 1 || snd.stopped[0] != "rain" {
		t.Fatalf("expected rain loop to stop, got %v", snd.stopped)
	}
	if len(rend.skyCalls) != 1 || rend.skyCalls[0] {
		t.Fatalf("expected a single sky disable, got %v", rend.skyCalls)
	}
	if rend.weatherSets != sets {
		t.Fatalf("expected no weather push while indoors")
	}
	if m.IsDark() {
		t.Fatalf("expected interiors never to report dark")
	}
}

func TestManagerAmbientVolumeFollowsTransition(t *testing.T) {
	world := exteriorWorld("bitter coast region")
	m, _, snd := newTestManager(t, world, percentRolls(1))
	m.Update(0, false)

	// Halfway plus a bit: Rain's loop takes over at low volume.
	m.Update(6, false)
	if snd.current == nil || snd.current.id != "rain" {
		t.Fatalf("expected rain loop after the halfway point, got %+v", snd.current)
	}
	if !approx(snd.current.volume, 0.2) {
		t.Fatalf("expected volume 0.2, got %v", snd.current.volume)
	}
}

func TestManagerTeleportForcesWeather(t *testing.T) {
	world := exteriorWorld(ascadian)
	m, _, _ := newTestManager(t, world, percentRolls(80))
	m.Update(0, false)
	if !m.Status().Next.IsSome() {
		t.Fatalf("expected a transition toward Cloudy")
	}

	world.region = "Bitter Coast Region"
	m.PlayerTeleported()
	if m.WeatherID() != Rain || m.Status().Next.IsSome() {
		t.Fatalf("expected Rain forced, got %+v", m.Status())
	}

	world.exterior = false
	world.region = ascadian
	m.PlayerTeleported()
	if m.WeatherID() != Rain {
		t.Fatalf("expected interior teleport to leave weather alone")
	}
}

func TestManagerStormDirection(t *testing.T) {
	world := exteriorWorld("stormy region")
	m, rend, _ := newTestManager(t, world, percentRolls(1))
	if err := m.ChangeWeather("stormy region", Ashstorm); err != nil {
		t.Fatalf("change weather: %v", err)
	}
	m.Update(0, false)
	m.AdvanceTime(0, false)
	world.pos = Vec3{X: 19950 + 300, Y: 72032 + 400, Z: 5}
	m.Update(0.01, false)

	if !m.IsInStorm() {
		t.Fatalf("expected ashstorm to be a storm")
	}
	dir := m.StormDirection()
	if !approx(dir.X, 0.6) || !approx(dir.Y, 0.8) || dir.Z != 0 {
		t.Fatalf("expected (0.6,0.8,0), got %+v", dir)
	}
	if rend.storm != dir {
		t.Fatalf("expected renderer to receive storm direction")
	}
	if m.WindSpeed() <= 0.7 {
		t.Fatalf("expected storm wind speed, got %v", m.WindSpeed())
	}
}

func TestManagerThunderPlaysDuringSteadyThunderstorm(t *testing.T) {
	world := exteriorWorld("stormy region")
	m, rend, snd := newTestManager(t, world, &fixedSource{values: []int{0, 2}})
	m.Update(0, false)
	m.AdvanceTime(0, false)
	m.Update(0.01, false)
	if m.WeatherID() != Thunderstorm {
		t.Fatalf("expected Thunderstorm, got %s", m.WeatherID())
	}

	// 4% per second against the initial 50 needed.
	for i := 0; i < 13; i++ {
		m.Update(1, false)
	}
	if rend.last.LightningStrength <= 0 {
		t.Fatalf("expected lightning after accumulating chance, got %v", rend.last.LightningStrength)
	}
	m.Update(0.3, false)
	if len(snd.once) != 1 || snd.once[0] != "Thunder2" {
		t.Fatalf("expected Thunder2, got %v", snd.once)
	}
	if len(snd.loops) == 0 || snd.loops[0] != "rain heavy" {
		t.Fatalf("expected heavy rain loop, got %v", snd.loops)
	}
}

func TestManagerNoThunderWhileTransitioning(t *testing.T) {
	world := exteriorWorld("stormy region")
	m, rend, snd := newTestManager(t, world, percentRolls(1))
	m.Update(0, false)
	if next, ok := m.Status().Next.Get(); !ok || next != Thunderstorm {
		t.Fatalf("expected transition toward Thunderstorm, got %v", m.Status().Next)
	}
	// Thunderstorm's delta is 0.03 per second, so the blend outlasts 14s.
	for i := 0; i < 14; i++ {
		m.Update(1, false)
	}
	if !m.Status().Next.IsSome() || m.thunder.chance != 0 {
		t.Fatalf("expected no thunder chance while blending in, got %+v chance=%v", m.Status(), m.thunder.chance)
	}

	m.AdvanceTime(0, false)
	m.Update(0, false)
	if m.WeatherID() != Thunderstorm {
		t.Fatalf("expected Thunderstorm, got %s", m.WeatherID())
	}
	if err := m.ChangeWeather("stormy region", Clear); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Clear's delta is 0.015 per second.
	for i := 0; i < 14; i++ {
		m.Update(1, false)
	}
	if m.WeatherID() != Thunderstorm || !m.Status().Next.IsSome() {
		t.Fatalf("expected transition out of Thunderstorm still running, got %+v", m.Status())
	}
	if m.thunder.chance != 0 {
		t.Fatalf("expected no thunder chance while blending out, got %v", m.thunder.chance)
	}
	if rend.last.LightningStrength != 0 || len(snd.once) != 0 {
		t.Fatalf("expected no lightning or thunder, got %v %v", rend.last.LightningStrength, snd.once)
	}
}

func TestManagerPausedFreezesThunder(t *testing.T) {
	world := exteriorWorld("stormy region")
	m, rend, snd := newTestManager(t, world, percentRolls(1))
	m.Update(0, false)
	m.AdvanceTime(0, false)
	m.Update(0, false)
	if m.WeatherID() != Thunderstorm || m.Status().Next.IsSome() {
		t.Fatalf("expected steady Thunderstorm, got %+v", m.Status())
	}

	before := m.thunder.chance
	for i := 0; i < 20; i++ {
		m.Update(1, true)
	}
	if m.thunder.chance != before {
		t.Fatalf("expected thunder chance to stay at %v while paused, got %v", before, m.thunder.chance)
	}
	if rend.last.LightningStrength != 0 || len(snd.once) != 0 {
		t.Fatalf("expected no strike while paused, got %v %v", rend.last.LightningStrength, snd.once)
	}
}

func TestManagerInteriorRegionIsNotTracked(t *testing.T) {
	world := &stubWorld{hour: 12, day: 1, region: "Bitter Coast Region", inCell: true}
	m, _, _ := newTestManager(t, world, percentRolls(1))
	m.Update(0, false)
	if m.Status().Region != "" || m.Status().Next.IsSome() {
		t.Fatalf("expected interior region to be ignored, got %+v", m.Status())
	}
	if err := m.ChangeWeather("bitter coast region", Snow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status().Next.IsSome() {
		t.Fatalf("expected no transition while indoors, got %v", m.Status().Next)
	}

	world.exterior = true
	m.PlayerTeleported()
	if m.WeatherID() != Snow || m.Status().Next.IsSome() {
		t.Fatalf("expected snap to Snow on stepping outside, got %+v", m.Status())
	}
}

func TestManagerLongSkipExpiresOncePerUpdate(t *testing.T) {
	world := exteriorWorld(ascadian)
	src := percentRolls(10)
	m, _, _ := newTestManager(t, world, src)
	m.Update(0, false)

	m.AdvanceTime(45, false)
	m.Update(0, false)
	if src.calls != 2 {
		t.Fatalf("expected one reroll, got %d rolls", src.calls)
	}
	if got := m.Status().HoursUntilChange; got != -5 {
		t.Fatalf("expected countdown -5, got %v", got)
	}
	m.Update(0, false)
	if src.calls != 3 {
		t.Fatalf("expected a second reroll on the next update, got %d rolls", src.calls)
	}
	if got := m.Status().HoursUntilChange; got != 15 {
		t.Fatalf("expected countdown 15, got %v", got)
	}
}

func TestManagerIsDark(t *testing.T) {
	world := exteriorWorld(ascadian)
	m, _, _ := newTestManager(t, world, percentRolls(1))
	for _, tc := range []struct {
		hour float64
		want bool
	}{{5, true}, {6, false}, {19, false}, {19.5, true}} {
		world.hour = tc.hour
		if got := m.IsDark(); got != tc.want {
			t.Fatalf("hour %v: expected dark=%v", tc.hour, tc.want)
		}
	}
}

func TestManagerStateRoundTrip(t *testing.T) {
	world := exteriorWorld(ascadian)
	m, _, _ := newTestManager(t, world, percentRolls(80))
	m.Update(0, false)
	m.ChangeWeather(ascadian, Rain)
	m.AdvanceTime(3, true)
	_ = m.ModRegion("Bitter Coast Region", []int{0, 0, 0, 0, 0, 0, 0, 0, 50, 50})

	saved := m.State()
	other, _, _ := newTestManager(t, world, percentRolls(1))
	other.Restore(saved)
	got := other.State()

	if got.CurrentRegion != saved.CurrentRegion || got.TimePassed != saved.TimePassed || got.UpdateTime != saved.UpdateTime {
		t.Fatalf("expected scalars to round trip, got %+v want %+v", got, saved)
	}
	if got.Transition != saved.Transition {
		t.Fatalf("expected transition %+v, got %+v", saved.Transition, got.Transition)
	}
	bitter := got.Regions["bitter coast region"]
	if len(bitter.Chances) != 10 || bitter.Chances[9] != 50 {
		t.Fatalf("expected modified chances to survive, got %v", bitter.Chances)
	}
}

func TestManagerRestoreEmptyRegionsReimports(t *testing.T) {
	m, _, _ := newTestManager(t, exteriorWorld(ascadian), percentRolls(1))
	m.Restore(State{Transition: TransitionState{Current: ID(42), Next: Some(ID(99))}})
	if len(m.RegionIDs()) != 3 {
		t.Fatalf("expected configured regions, got %v", m.RegionIDs())
	}
	if m.WeatherID() != Clear || m.Status().Next.IsSome() {
		t.Fatalf("expected unknown saved ids to be dropped, got %+v", m.Status())
	}
}

func TestManagerClearResets(t *testing.T) {
	world := exteriorWorld("bitter coast region")
	m, _, snd := newTestManager(t, world, percentRolls(1))
	m.Update(0, false)
	m.Update(20, false)
	m.Clear()

	st := m.Status()
	if st.Current != Clear || st.Region != "" || st.HoursUntilChange != 0 {
		t.Fatalf("expected cleared state, got %+v", st)
	}
	if len(snd.stopped) != 1 {
		t.Fatalf("expected ambient loop to stop, got %v", snd.stopped)
	}
}

func TestSunAndMoonsReachRenderer(t *testing.T) {
	world := exteriorWorld(ascadian)
	world.hour = 22
	m, _, _ := newTestManager(t, world, percentRolls(1))
	m.Update(0, false)
	st := m.Status()
	if st.SunEnabled {
		t.Fatalf("expected sun disabled at night")
	}
	if st.Phase != PhaseNight || !st.Result.Night {
		t.Fatalf("expected night phase")
	}
	if math.IsNaN(st.Masser.Alpha) || math.IsNaN(st.Secunda.Alpha) {
		t.Fatalf("expected finite moon alpha")
	}
}
