package console

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/appengine-ltd/skyweather/internal/savegame"
	"github.com/appengine-ltd/skyweather/internal/weather"
	"github.com/appengine-ltd/skyweather/internal/world"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	ErrPaused         = errors.New("time is paused")
	ErrNoSlots        = errors.New("saving is not configured")
)

const DefaultSlot = "quick"

// advanceStep is the real-time step, in seconds, used when letting game
// time run from the console.
const advanceStep = 1.0

// Slots persists weather state by name.
type Slots interface {
	Save(ctx context.Context, slot string, state weather.State) error
	Load(ctx context.Context, slot string) (weather.State, error)
}

// Console executes typed commands against a running simulation.
type Console struct {
	parser *Parser
	driver *world.Driver
	slots  Slots
	logger *zap.Logger
}

func New(driver *world.Driver, slots Slots, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		parser: NewParser(),
		driver: driver,
		slots:  slots,
		logger: logger,
	}
}

func (c *Console) Parser() *Parser { return c.parser }

// Execute runs one line and returns the text to show the user.
func (c *Console) Execute(ctx context.Context, line string) (string, error) {
	intent := c.parser.Parse(line)
	if intent.Normalised == "" {
		return "", nil
	}
	if intent.Verb == "" {
		if len(intent.Suggestions) > 0 {
			return "", fmt.Errorf("%w %q, did you mean %s?", ErrUnknownCommand, intent.Raw, strings.Join(intent.Suggestions, " or "))
		}
		return "", fmt.Errorf("%w %q, try help", ErrUnknownCommand, intent.Raw)
	}

	def, _ := c.parser.registry.Command(intent.Verb)
	if len(intent.Args) < def.MinArgs || (def.MaxArgs >= 0 && len(intent.Args) > def.MaxArgs) {
		return "", fmt.Errorf("%w: %s", ErrUsage, def.Usage)
	}

	c.logger.Debug("console command",
		zap.String("verb", intent.Verb),
		zap.Strings("args", intent.Args),
		zap.Float64("confidence", intent.Confidence))

	switch intent.Verb {
	case "help":
		return c.help(), nil
	case "status":
		return Describe(c.driver), nil
	case "changeweather":
		return c.changeWeather(intent.Args)
	case "modregion":
		return c.modRegion(intent.Args)
	case "advance":
		return c.advance(ctx, strings.Join(intent.Args, ""))
	case "wait":
		return c.wait(strings.Join(intent.Args, ""))
	case "teleport":
		return c.teleport(intent.Args)
	case "outside":
		c.driver.SetExterior(true)
		return "You step outside.", nil
	case "inside":
		c.driver.SetExterior(false)
		return "You step inside.", nil
	case "pause":
		c.driver.SetPaused(true)
		return "Time paused.", nil
	case "resume":
		c.driver.SetPaused(false)
		return "Time resumed.", nil
	case "timescale":
		return c.timescale(intent.Args[0])
	case "regions":
		return c.regions(), nil
	case "weathers":
		return c.weathers(), nil
	case "save":
		return c.save(ctx, slotArg(intent.Args))
	case "load":
		return c.load(ctx, slotArg(intent.Args))
	case "reset":
		c.driver.Manager().Clear()
		c.driver.Tick(0)
		return "Weather reset.", nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCommand, intent.Verb)
}

func slotArg(args []string) string {
	if len(args) == 0 {
		return DefaultSlot
	}
	return args[0]
}

func (c *Console) help() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, def := range c.parser.registry.Commands() {
		fmt.Fprintf(&b, "  %-34s %s\n", def.Usage, def.Summary)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Console) resolveRegion(tokens []string) (string, error) {
	query := strings.Join(tokens, " ")
	id, err := resolveName(query, c.driver.Manager().RegionIDs())
	if err != nil {
		var amb *AmbiguousError
		if errors.As(err, &amb) {
			return "", err
		}
		return "", fmt.Errorf("%w: %q", weather.ErrUnknownRegion, query)
	}
	return id, nil
}

func (c *Console) changeWeather(args []string) (string, error) {
	id, err := resolveWeather(args[len(args)-1])
	if err != nil {
		return "", err
	}
	region, err := c.resolveRegion(args[:len(args)-1])
	if err != nil {
		return "", err
	}
	if err := c.driver.Manager().ChangeWeather(region, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s weather set to %s.", region, id), nil
}

func (c *Console) modRegion(args []string) (string, error) {
	split := len(args)
	for i, tok := range args {
		if _, err := strconv.Atoi(tok); err == nil {
			split = i
			break
		}
	}
	if split == 0 || split == len(args) {
		return "", fmt.Errorf("%w: modregion <region> <clear> <cloudy> ... <blizzard>", ErrUsage)
	}
	region, err := c.resolveRegion(args[:split])
	if err != nil {
		return "", err
	}
	chances := make([]int, 0, len(args)-split)
	for _, tok := range args[split:] {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: chance %q is not a whole number", ErrUsage, tok)
		}
		chances = append(chances, n)
	}
	if err := c.driver.Manager().ModRegion(region, chances); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s chances set to %s.", region, formatChances(chances)), nil
}

func (c *Console) advance(ctx context.Context, arg string) (string, error) {
	hours, ok := parseHours(arg)
	if !ok {
		return "", fmt.Errorf("%w: advance <hours>", ErrUsage)
	}
	if c.driver.Paused() {
		return "", ErrPaused
	}
	ts := c.driver.World().Clock().Timescale()
	seconds := hours * 3600 / ts
	steps := int(math.Ceil(seconds / advanceStep))
	if steps > 0 {
		if err := c.driver.Run(ctx, steps, seconds/float64(steps)); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%s passed. It is now %s.", formatHours(hours), c.clockText()), nil
}

func (c *Console) wait(arg string) (string, error) {
	hours, ok := parseHours(arg)
	if !ok || hours <= 0 {
		return "", fmt.Errorf("%w: wait <hours>", ErrUsage)
	}
	c.driver.Skip(hours)
	c.driver.Tick(0)
	return fmt.Sprintf("You wait %s. It is now %s.", formatHours(hours), c.clockText()), nil
}

func (c *Console) teleport(args []string) (string, error) {
	exterior := true
	if isInteriorFlag(args[len(args)-1]) && len(args) > 1 {
		exterior = false
		args = args[:len(args)-1]
	}
	region, err := c.resolveRegion(args)
	if err != nil {
		return "", err
	}
	c.driver.Teleport(region, exterior, c.driver.World().PlayerPosition())
	c.driver.Tick(0)
	where := "outside"
	if !exterior {
		where = "inside"
	}
	return fmt.Sprintf("You arrive %s in %s. The weather is %s.", where, region, c.driver.Manager().WeatherID()), nil
}

func (c *Console) timescale(arg string) (string, error) {
	ts, err := strconv.ParseFloat(arg, 64)
	if err != nil || ts <= 0 {
		return "", fmt.Errorf("%w: timescale <n> with n > 0", ErrUsage)
	}
	c.driver.World().Clock().SetTimescale(ts)
	return fmt.Sprintf("Timescale set to %g.", ts), nil
}

func (c *Console) regions() string {
	m := c.driver.Manager()
	var b strings.Builder
	for _, id := range m.RegionIDs() {
		r, _ := m.Region(id)
		fmt.Fprintf(&b, "%-28s %-12s %s\n", id, r.Weather, formatChances(r.Chances))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Console) weathers() string {
	var b strings.Builder
	for _, p := range c.driver.Manager().Profiles() {
		storm := ""
		if p.IsStorm {
			storm = " storm"
		}
		fmt.Fprintf(&b, "%-13s wind %.2f  delta %.3f%s\n", p.Name, p.WindSpeed, p.TransitionDelta, storm)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Console) save(ctx context.Context, slot string) (string, error) {
	if c.slots == nil {
		return "", ErrNoSlots
	}
	if err := c.slots.Save(ctx, slot, c.driver.Manager().State()); err != nil {
		return "", fmt.Errorf("save %s: %w", slot, err)
	}
	return fmt.Sprintf("Saved to %s.", slot), nil
}

// load restores slot. A missing or outdated record starts fresh weather.
func (c *Console) load(ctx context.Context, slot string) (string, error) {
	if c.slots == nil {
		return "", ErrNoSlots
	}
	m := c.driver.Manager()
	state, err := c.slots.Load(ctx, slot)
	switch {
	case errors.Is(err, savegame.ErrNoRecord):
		m.Clear()
		c.driver.Tick(0)
		return fmt.Sprintf("No usable weather in %s, starting fresh.", slot), nil
	case err != nil:
		return "", fmt.Errorf("load %s: %w", slot, err)
	}
	m.Restore(state)
	c.driver.Tick(0)
	return fmt.Sprintf("Loaded %s. The weather is %s.", slot, m.WeatherID()), nil
}

func (c *Console) clockText() string {
	w := c.driver.World()
	return fmt.Sprintf("day %d, %s", w.Day(), FormatClock(w.Hour()))
}

// FormatClock renders a fractional hour as HH:MM.
func FormatClock(hour float64) string {
	total := int(math.Floor(hour*60 + 0.5))
	total = ((total % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func formatHours(h float64) string {
	if h == 1 {
		return "1 hour"
	}
	return strconv.FormatFloat(h, 'f', -1, 64) + " hours"
}

func formatChances(chances []int) string {
	names := weather.Names()
	parts := make([]string, 0, len(chances))
	for i, v := range chances {
		if v == 0 {
			continue
		}
		name := strconv.Itoa(i)
		if i < len(names) {
			name = names[i]
		}
		parts = append(parts, fmt.Sprintf("%s:%d", name, v))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// Describe renders the manager's status as a few lines of text.
func Describe(d *world.Driver) string {
	st := d.Manager().Status()
	w := d.World()
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d %s (%s)", w.Day(), FormatClock(w.Hour()), st.Phase)
	if d.Paused() {
		b.WriteString(" paused")
	}
	b.WriteByte('\n')

	region := st.Region
	if region == "" {
		region = "-"
	}
	place := "outside"
	if !st.Exterior {
		place = "inside"
	}
	fmt.Fprintf(&b, "Region %s, %s\n", region, place)

	fmt.Fprintf(&b, "Weather %s", st.Current)
	if next, ok := st.Next.Get(); ok {
		fmt.Fprintf(&b, " -> %s %.0f%%", next, (1-st.Factor)*100)
		if st.FastForward {
			b.WriteString(" fast")
		}
	}
	if queued, ok := st.Queued.Get(); ok {
		fmt.Fprintf(&b, ", then %s", queued)
	}
	fmt.Fprintf(&b, ", next roll in %.1fh\n", st.HoursUntilChange)

	r := st.Result
	fmt.Fprintf(&b, "Wind %.2f, clouds %s", r.WindSpeed, r.CloudTexture)
	if r.IsStorm {
		b.WriteString(", storm")
	}
	if r.LightningStrength > 0 {
		fmt.Fprintf(&b, ", lightning %.2f", r.LightningStrength)
	}
	b.WriteByte('\n')

	sun := "down"
	if st.SunEnabled {
		sun = fmt.Sprintf("up (%.2f, %.2f, %.2f)", st.SunDirection.X, st.SunDirection.Y, st.SunDirection.Z)
	}
	fmt.Fprintf(&b, "Sun %s, Masser %s, Secunda %s", sun, st.Masser.Phase, st.Secunda.Phase)
	if st.AmbientSound != "" {
		fmt.Fprintf(&b, "\nSound %s at %.2f", st.AmbientSound, r.AmbientSoundVolume)
	}
	return b.String()
}
