package display

import (
	"sync"
	"time"

	"github.com/ayusman/handsign/internal/gesture"
)

// State is what the display currently shows. The zero value is Idle.
type State struct {
	Sign    Sign   `json:"sign"`
	Message string `json:"message"`
}

// Idle reports whether nothing is displayed.
func (s State) Idle() bool {
	return s.Sign == SignNone
}

func stateFor(s Sign) State {
	return State{Sign: s, Message: s.Message()}
}

// Event records a change of the displayed sign.
type Event struct {
	Previous State `json:"previous"`
	Current  State `json:"current"`
	// Gesture is the accepted estimate name. It is set on an Idle change when
	// the accepted gesture has no sign, and empty otherwise when Idle.
	Gesture    string    `json:"gesture,omitempty"`
	Confidence float64   `json:"confidence"`
	At         time.Time `json:"at"`
}

// Machine debounces per-frame estimates into display changes. Step is
// expected to be called from a single goroutine; State may be read
// concurrently.
type Machine struct {
	threshold float64
	now       func() time.Time

	mu    sync.RWMutex
	state State
}

// NewMachine creates an idle Machine. A non-positive threshold selects
// DefaultAcceptThreshold.
func NewMachine(threshold float64) *Machine {
	if threshold <= 0 {
		threshold = DefaultAcceptThreshold
	}
	return &Machine{threshold: threshold, now: time.Now}
}

// Threshold returns the acceptance threshold.
func (m *Machine) Threshold() float64 {
	return m.threshold
}

// State returns the currently displayed state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Step feeds one frame's estimates. It returns an event and true only when
// the displayed sign changes.
func (m *Machine) Step(estimates []gesture.Estimate) (Event, bool) {
	next := SignNone
	var chosen gesture.Estimate
	if best, ok := Select(estimates, m.threshold); ok {
		chosen = best
		if s, ok := Resolve(best.Name); ok {
			next = s
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if next == m.state.Sign {
		return Event{}, false
	}
	ev := Event{
		Previous:   m.state,
		Current:    stateFor(next),
		Gesture:    chosen.Name,
		Confidence: chosen.Confidence,
		At:         m.now(),
	}
	m.state = ev.Current
	return ev, true
}

// Reset returns the machine to Idle without emitting an event.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
}
