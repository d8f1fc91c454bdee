package weather

// RequestOutcome reports what Transition.Request did.
type RequestOutcome int

const (
	RequestIgnored RequestOutcome = iota
	RequestStarted
	RequestQueued
)

func (o RequestOutcome) String() string {
	switch o {
	case RequestStarted:
		return "started"
	case RequestQueued:
		return "queued"
	default:
		return "ignored"
	}
}

// Transition tracks the current, next and queued weather slots.
// Factor is the remaining fraction of the running transition: 1 when it
// starts, 0 when steady.
type Transition struct {
	current     ID
	next        Slot
	queued      Slot
	factor      float64
	fastForward bool
}

func NewTransition(current ID) *Transition {
	return &Transition{current: current}
}

func (t *Transition) Current() ID        { return t.current }
func (t *Transition) Next() Slot         { return t.next }
func (t *Transition) Queued() Slot       { return t.queued }
func (t *Transition) Factor() float64    { return t.factor }
func (t *Transition) FastForward() bool  { return t.fastForward }
func (t *Transition) InTransition() bool { return t.next.IsSome() }
func (t *Transition) SetFastForward()    { t.fastForward = true }

// Request starts a transition toward id, or queues it behind the running
// one. A later queued request replaces an earlier one.
func (t *Transition) Request(id ID) RequestOutcome {
	next, transitioning := t.next.Get()
	switch {
	case !transitioning && id != t.current:
		t.next = Some(id)
		t.factor = 1
		return RequestStarted
	case transitioning && id != next:
		t.queued = Some(id)
		return RequestQueued
	default:
		return RequestIgnored
	}
}

// Force drops any transition and makes id current.
func (t *Transition) Force(id ID) {
	t.current = id
	t.next = None
	t.queued = None
	t.factor = 0
}

// Advance runs the transition for elapsed real seconds. delta gives the
// per-second rate of the weather being transitioned into. When fast-forward
// is set, or nothing is running, the slots collapse onto the latest target.
// It reports whether the current weather changed.
func (t *Transition) Advance(elapsed float64, delta func(ID) float64) bool {
	if t.fastForward || !t.InTransition() {
		return t.collapse()
	}

	changed := false
	step := delta(t.next.Or(t.current))
	t.factor -= elapsed * step
	for t.factor <= 0 && t.InTransition() {
		t.current = t.next.Or(t.current)
		t.next = t.queued
		t.queued = None
		changed = true

		next, ok := t.next.Get()
		if !ok {
			t.factor = 0
			break
		}
		// Carry the overshoot into the queued transition.
		remaining := -(t.factor / step)
		step = delta(next)
		t.factor = 1 - remaining*step
	}
	return changed
}

func (t *Transition) collapse() bool {
	before := t.current
	if id, ok := t.queued.Get(); ok {
		t.current = id
	} else if id, ok := t.next.Get(); ok {
		t.current = id
	}
	t.next = None
	t.queued = None
	t.factor = 0
	t.fastForward = false
	return t.current != before
}

// TransitionState is the persisted form of a Transition.
type TransitionState struct {
	Current     ID
	Next        Slot
	Queued      Slot
	Factor      float64
	FastForward bool
}

func (t *Transition) State() TransitionState {
	return TransitionState{
		Current:     t.current,
		Next:        t.next,
		Queued:      t.queued,
		Factor:      t.factor,
		FastForward: t.fastForward,
	}
}

func (t *Transition) Restore(s TransitionState) {
	t.current = s.Current
	t.next = s.Next
	t.queued = s.Queued
	t.factor = s.Factor
	t.fastForward = s.FastForward
}
