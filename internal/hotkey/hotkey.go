package hotkey

import "errors"

var ErrInstalled = errors.New("keyboard hook already installed")

// Key is a Windows virtual-key code.
type Key uint32

const (
	KeyControl  Key = 0x11
	KeyMenu     Key = 0x12
	KeySnapshot Key = 0x2C
	KeyLControl Key = 0xA2
	KeyRControl Key = 0xA3
	KeyLMenu    Key = 0xA4
	KeyRMenu    Key = 0xA5
)

type Event struct {
	Key  Key
	Down bool
	// AltDown mirrors the LLKHF_ALTDOWN flag of the hook event.
	AltDown bool
	// Time is the event timestamp in milliseconds.
	Time uint32
}

// RepeatWindow bounds the gap between auto-repeated key-downs of a held
// key. The slowest keyboard settings repeat after one second.
const RepeatWindow = 1500

// Action tells the hook what to do with an event.
type Action struct {
	Swallow    bool
	Fire       bool
	SaveToFile bool
}

type State int

const (
	Idle State = iota
	Handling
	Armed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Handling:
		return "handling"
	case Armed:
		return "armed"
	}
	return "unknown"
}

// Trigger turns raw key events into at most one capture per PrintScreen
// press. It is owned by the hook thread and is not safe for concurrent use.
type Trigger struct {
	held  map[Key]struct{}
	state State

	// Time of the last PrintScreen key-down.
	last    uint32
	pressed bool
}

func NewTrigger() *Trigger {
	return &Trigger{held: make(map[Key]struct{})}
}

func (t *Trigger) State() State {
	return t.state
}

func (t *Trigger) Handle(ev Event) Action {
	if !ev.Down {
		delete(t.held, ev.Key)
		if ev.Key == KeySnapshot {
			t.state = Idle
			t.pressed = false
		}
		return Action{}
	}

	t.held[ev.Key] = struct{}{}
	if ev.Key != KeySnapshot {
		return Action{}
	}

	// A key-down after a silence longer than any auto-repeat is a new press:
	// the release of the previous one never reached the hook.
	if t.state == Armed && t.pressed && ev.Time-t.last > RepeatWindow {
		t.state = Idle
	}
	t.last, t.pressed = ev.Time, true

	// Alt+PrintScreen belongs to the system (active window capture).
	if ev.AltDown || t.anyHeld(KeyMenu, KeyLMenu, KeyRMenu) {
		return Action{}
	}

	if t.state != Idle {
		return Action{Swallow: true}
	}

	t.state = Handling
	return Action{
		Swallow:    true,
		Fire:       true,
		SaveToFile: t.anyHeld(KeyControl, KeyLControl, KeyRControl),
	}
}

// Complete marks the capture fired by the last press as finished. A release
// that arrived in the meantime wins.
func (t *Trigger) Complete() {
	if t.state == Handling {
		t.state = Armed
	}
}

func (t *Trigger) anyHeld(keys ...Key) bool {
	for _, k := range keys {
		if _, ok := t.held[k]; ok {
			return true
		}
	}
	return false
}
