package weather

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/appengine-ltd/skyweather/internal/fallback"
	"go.uber.org/zap"
)

var (
	ErrUnknownRegion  = errors.New("unknown region")
	ErrUnknownWeather = errors.New("unknown weather")
)

const defaultHoursBetweenChanges = 20.0

// DefaultStormOrigin is the point storms blow away from.
var DefaultStormOrigin = Vec3{X: 19950, Y: 72032, Z: 27831}

// Config wires a Manager to its collaborators. Only Store and World are
// required.
type Config struct {
	Store       *fallback.Store
	World       World
	Renderer    Renderer
	Sound       SoundPlayer
	Random      RandomSource
	Logger      *zap.Logger
	StormOrigin *Vec3
}

// RegionState is the saved form of one region.
type RegionState struct {
	Weather Slot
	Chances []int
}

// State is everything a save game needs to resume the weather.
type State struct {
	CurrentRegion string
	TimePassed    float64
	UpdateTime    float64
	Transition    TransitionState
	Regions       map[string]RegionState
}

// Status is a read-only snapshot for consoles and monitors.
type Status struct {
	Region           string
	Current          ID
	Next             Slot
	Queued           Slot
	Factor           float64
	FastForward      bool
	HoursUntilChange float64
	Exterior         bool
	Phase            DayPhase
	SunEnabled       bool
	SunDirection     Vec3
	Masser           CelestialState
	Secunda          CelestialState
	AmbientSound     string
	Result           Result
}

// Manager owns profiles, regions, the transition and both moons, and
// pushes a fresh Result to the renderer and sound player every Update.
// It is not safe for concurrent use.
type Manager struct {
	store    *fallback.Store
	world    World
	renderer Renderer
	rng      RandomSource
	logger   *zap.Logger

	profiles   []Profile
	compositor *Compositor
	cycle      DayCycle
	masser     MoonModel
	secunda    MoonModel

	hoursBetweenChanges float64
	stormOrigin         Vec3

	regions    map[string]*RegionWeather
	transition *Transition
	thunder    thunder
	ambient    ambientSound

	currentRegion string
	timePassed    float64
	updateTime    float64

	exterior       bool
	windSpeed      float64
	isStorm        bool
	stormDirection Vec3
	sunEnabled     bool
	sunDirection   Vec3
	moons          [2]CelestialState
	result         Result
}

func NewManager(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = nopRenderer{}
	}
	sound := cfg.Sound
	if sound == nil {
		sound = nopSound{}
	}
	rng := cfg.Random
	if rng == nil {
		rng = NewSource()
	}
	store := cfg.Store
	origin := DefaultStormOrigin
	if cfg.StormOrigin != nil {
		origin = *cfg.StormOrigin
	}

	profiles := LoadProfiles(store, logger)
	cycle := NewDayCycle(store)

	hours := store.Float("Weather_Hours_Between_Weather_Changes")
	if hours <= 0 {
		logger.Warn("non-positive hours between weather changes, using default",
			zap.Float64("hours", hours),
			zap.Float64("default", defaultHoursBetweenChanges))
		hours = defaultHoursBetweenChanges
	}

	var sounds [4]string
	for i := range sounds {
		sounds[i] = store.String(fmt.Sprintf("Weather_Thunderstorm_Thunder_Sound_ID_%d", i))
	}

	m := &Manager{
		store:               store,
		world:               cfg.World,
		renderer:            renderer,
		rng:                 rng,
		logger:              logger,
		profiles:            profiles,
		compositor:          NewCompositor(cycle, profiles),
		cycle:               cycle,
		masser:              NewMoonModel(store, "Masser"),
		secunda:             NewMoonModel(store, "Secunda"),
		hoursBetweenChanges: hours,
		stormOrigin:         origin,
		transition:          NewTransition(Clear),
		thunder:             newThunder(store.Float("Weather_Thunderstorm_Thunder_Threshold"), sounds),
		ambient:             ambientSound{player: sound},
		updateTime:          hours,
		stormDirection:      Vec3{Y: 1},
	}
	m.importRegions()
	m.transition.Force(Clear)
	return m
}

func normaliseRegion(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func (m *Manager) importRegions() {
	m.regions = make(map[string]*RegionWeather)
	for _, r := range m.store.Regions() {
		id := normaliseRegion(r.ID)
		if id == "" {
			continue
		}
		m.regions[id] = NewRegionWeather(r.Chances())
	}
}

func (m *Manager) delta(id ID) float64 {
	if int(id) < 0 || int(id) >= len(m.profiles) {
		return defaultTransitionDelta
	}
	return m.profiles[id].TransitionDelta
}

func (m *Manager) validID(id ID) bool {
	return id >= 0 && int(id) < len(m.profiles)
}

// requestTransition ignores ids without a profile.
func (m *Manager) requestTransition(id ID, reason string) {
	if !m.validID(id) {
		m.logger.Warn("ignoring transition to unknown weather", zap.Int("weather", int(id)), zap.String("reason", reason))
		return
	}
	outcome := m.transition.Request(id)
	if outcome == RequestIgnored {
		return
	}
	m.logger.Debug("weather transition",
		zap.Stringer("outcome", outcome),
		zap.Stringer("weather", id),
		zap.Stringer("current", m.transition.Current()),
		zap.String("reason", reason))
}

func (m *Manager) forceWeather(id ID, reason string) {
	if !m.validID(id) {
		m.logger.Warn("ignoring forced unknown weather", zap.Int("weather", int(id)), zap.String("reason", reason))
		return
	}
	m.transition.Force(id)
	m.logger.Debug("weather forced", zap.Stringer("weather", id), zap.String("reason", reason))
}

// ChangeWeather pins a region to id. When the player is in that region a
// transition starts, or is queued behind the running one. Unknown regions
// and ids leave the state untouched; the returned error only reports it.
func (m *Manager) ChangeWeather(region string, id ID) error {
	if !m.validID(id) {
		m.logger.Debug("ignoring unknown weather", zap.Int("weather", int(id)), zap.String("region", region))
		return fmt.Errorf("%w: %d", ErrUnknownWeather, id)
	}
	key := normaliseRegion(region)
	rw, ok := m.regions[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	rw.SetWeather(id)
	m.regionalWeatherChanged(key, rw)
	return nil
}

// ModRegion replaces a region's chance table. If the selected weather is no
// longer supported the region rolls again.
func (m *Manager) ModRegion(region string, chances []int) error {
	key := normaliseRegion(region)
	rw, ok := m.regions[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	rw.SetChances(chances)
	m.regionalWeatherChanged(key, rw)
	return nil
}

func (m *Manager) regionalWeatherChanged(region string, rw *RegionWeather) {
	if m.world == nil || !m.world.InCell() || !m.world.IsExterior() {
		return
	}
	player := normaliseRegion(m.world.PlayerRegion())
	if player != "" && player == region {
		m.requestTransition(rw.Weather(m.rng), "region changed")
	}
}

// PlayerTeleported snaps to the weather of a newly entered exterior region,
// discarding any transition.
func (m *Manager) PlayerTeleported() {
	if m.world == nil || !m.world.IsExterior() {
		return
	}
	region := normaliseRegion(m.world.PlayerRegion())
	rw, ok := m.regions[region]
	if !ok || region == m.currentRegion {
		return
	}
	m.currentRegion = region
	m.forceWeather(rw.Weather(m.rng), "teleport")
}

// AdvanceTime banks game hours for the reroll countdown. A non-incremental
// advance such as sleeping or travel completes transitions immediately.
func (m *Manager) AdvanceTime(hours float64, incremental bool) {
	m.timePassed += hours
	if !incremental {
		m.transition.SetFastForward()
	}
}

// Update advances the simulation by elapsed real seconds. While paused no
// new transitions are requested and thunder is frozen, but a running
// transition still progresses.
func (m *Manager) Update(elapsed float64, paused bool) {
	if !paused && m.world != nil {
		expired := m.updateWeatherTime()
		moved := false
		if m.world.IsExterior() {
			moved = m.updateWeatherRegion(normaliseRegion(m.world.PlayerRegion()))
		}
		if expired || moved {
			if rw, ok := m.regions[m.currentRegion]; ok {
				reason := "region entered"
				if expired {
					reason = "weather expired"
				}
				m.requestTransition(rw.Weather(m.rng), reason)
			}
		}
	}

	before := m.transition.Current()
	if m.transition.Advance(elapsed, m.delta) {
		m.logger.Debug("weather transition complete",
			zap.Stringer("from", before),
			zap.Stringer("to", m.transition.Current()))
	}

	m.exterior = m.world != nil && m.world.IsExterior()
	if !m.exterior {
		m.renderer.SetSkyEnabled(false)
		m.sunEnabled = false
		m.ambient.stop()
		return
	}
	m.renderer.SetSkyEnabled(true)

	hour := m.world.Hour()
	day := m.world.Day()

	m.result = m.compose(hour)
	m.windSpeed = m.result.WindSpeed
	m.isStorm = m.result.IsStorm

	if m.isStorm {
		dir := m.world.PlayerPosition().Sub(m.stormOrigin)
		dir.Z = 0
		m.stormDirection = dir.Normalize()
		m.renderer.SetStormDirection(m.stormDirection)
	}

	m.renderer.ConfigureFog(m.result.FogDepth, m.result.FogColour)

	m.sunEnabled = m.cycle.SunVisible(hour)
	m.renderer.SetSunEnabled(m.sunEnabled)
	m.sunDirection = m.cycle.SunDirection(hour)
	m.renderer.SetSunDirection(m.sunDirection)

	m.moons[0] = m.masser.CalculateState(day, hour)
	m.moons[1] = m.secunda.CalculateState(day, hour)
	m.renderer.SetMoons(m.moons[0], m.moons[1])

	if m.transition.Current() == Thunderstorm && !m.transition.InTransition() {
		if !paused {
			if sound := m.thunder.update(elapsed, m.rng); sound != "" {
				m.ambient.player.PlayOnce(sound, 1)
			}
		}
		m.result.LightningStrength = m.thunder.strength()
	}

	m.renderer.SetAmbientColour(m.result.AmbientColour)
	m.renderer.SetSunColour(m.result.SunColour)
	m.renderer.SetWeather(m.result)

	m.ambient.sync(m.result.AmbientLoopSound, m.result.AmbientSoundVolume)
}

func (m *Manager) compose(hour float64) Result {
	t := m.transition
	if next, ok := t.Next().Get(); ok && m.validID(next) && m.validID(t.Current()) {
		return m.compositor.ComposeTransition(t.Current(), next, 1-t.Factor(), hour)
	}
	current := t.Current()
	if !m.validID(current) {
		current = Clear
	}
	return m.compositor.ComposeSteady(current, hour)
}

func (m *Manager) updateWeatherTime() bool {
	m.updateTime -= m.timePassed
	m.timePassed = 0
	if m.updateTime > 0 {
		return false
	}
	for _, rw := range m.regions {
		rw.Invalidate()
	}
	m.updateTime += m.hoursBetweenChanges
	return true
}

func (m *Manager) updateWeatherRegion(region string) bool {
	if region == "" || region == m.currentRegion {
		return false
	}
	m.logger.Debug("player region changed", zap.String("from", m.currentRegion), zap.String("to", region))
	m.currentRegion = region
	return true
}

// Clear resets to a new-game state: Clear weather, fresh regions and an
// expired reroll countdown.
func (m *Manager) Clear() {
	m.ambient.stop()
	m.thunder.reset()
	m.currentRegion = ""
	m.timePassed = 0
	m.updateTime = 0
	m.transition.Force(Clear)
	m.importRegions()
}

func (m *Manager) State() State {
	regions := make(map[string]RegionState, len(m.regions))
	for id, rw := range m.regions {
		regions[id] = RegionState{Weather: rw.Selected(), Chances: rw.Chances()}
	}
	return State{
		CurrentRegion: m.currentRegion,
		TimePassed:    m.timePassed,
		UpdateTime:    m.updateTime,
		Transition:    m.transition.State(),
		Regions:       regions,
	}
}

// Restore loads saved state. Ids without a profile are dropped, and an empty
// region map falls back to the configured regions.
func (m *Manager) Restore(s State) {
	m.currentRegion = normaliseRegion(s.CurrentRegion)
	m.timePassed = s.TimePassed
	m.updateTime = s.UpdateTime

	ts := s.Transition
	if !m.validID(ts.Current) {
		m.logger.Warn("saved weather unknown, using Clear", zap.Int("weather", int(ts.Current)))
		ts.Current = Clear
	}
	if id, ok := ts.Next.Get(); ok && !m.validID(id) {
		ts.Next = None
	}
	if id, ok := ts.Queued.Get(); ok && !m.validID(id) {
		ts.Queued = None
	}
	if !ts.Next.IsSome() {
		ts.Queued = None
	}
	m.transition.Restore(ts)

	if len(s.Regions) == 0 {
		m.importRegions()
		return
	}
	m.regions = make(map[string]*RegionWeather, len(s.Regions))
	for id, rs := range s.Regions {
		m.regions[normaliseRegion(id)] = RestoreRegionWeather(rs.Weather, rs.Chances)
	}
}

func (m *Manager) WindSpeed() float64 { return m.windSpeed }

func (m *Manager) IsInStorm() bool { return m.isStorm }

func (m *Manager) StormDirection() Vec3 { return m.stormDirection }

func (m *Manager) WeatherID() ID { return m.transition.Current() }

func (m *Manager) Result() Result { return m.result }

// IsDark reports night in an exterior cell.
func (m *Manager) IsDark() bool {
	if m.world == nil || !m.world.IsExterior() {
		return false
	}
	return m.cycle.IsNight(m.world.Hour())
}

func (m *Manager) Profiles() []Profile {
	return append([]Profile(nil), m.profiles...)
}

func (m *Manager) Moons() (MoonModel, MoonModel) {
	return m.masser, m.secunda
}

func (m *Manager) Cycle() DayCycle { return m.cycle }

// RegionIDs lists the known regions in sorted order.
func (m *Manager) RegionIDs() []string {
	ids := make([]string, 0, len(m.regions))
	for id := range m.regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) Region(id string) (RegionState, bool) {
	rw, ok := m.regions[normaliseRegion(id)]
	if !ok {
		return RegionState{}, false
	}
	return RegionState{Weather: rw.Selected(), Chances: rw.Chances()}, true
}

func (m *Manager) Status() Status {
	s := Status{
		Region:           m.currentRegion,
		Current:          m.transition.Current(),
		Next:             m.transition.Next(),
		Queued:           m.transition.Queued(),
		Factor:           m.transition.Factor(),
		FastForward:      m.transition.FastForward(),
		HoursUntilChange: m.updateTime,
		Exterior:         m.exterior,
		SunEnabled:       m.sunEnabled,
		SunDirection:     m.sunDirection,
		Masser:           m.moons[0],
		Secunda:          m.moons[1],
		AmbientSound:     m.ambient.Playing(),
		Result:           m.result,
	}
	if m.world != nil {
		s.Phase = m.cycle.Phase(m.world.Hour())
	}
	return s
}
