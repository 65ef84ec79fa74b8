// Package app wires capture, detection, scoring and the display state
// machine into the handsign detection loop.
package app

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/detector"
	"github.com/ayusman/handsign/internal/display"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/store"
)

// DefaultInterval is the detection period.
const DefaultInterval = 100 * time.Millisecond

// reopenInterval spaces attempts to open a camera that is not ready.
const reopenInterval = time.Second

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	CameraID int
	Detector detector.Config
	// Interval is the detection period. Zero selects DefaultInterval.
	Interval time.Duration
	// Tolerance is the direction tolerance in degrees.
	Tolerance       float64
	AcceptThreshold float64
	NoiseFloor      float64
	// Smoothing Kalman-filters landmarks between frames.
	Smoothing bool
	// MotionGate skips detection on frames with no visible motion.
	MotionGate bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Detector:        detector.DefaultConfig(),
		Interval:        DefaultInterval,
		Tolerance:       gesture.DefaultTolerance,
		AcceptThreshold: display.DefaultAcceptThreshold,
	}
}

// Stats counts what the pipeline has done since start.
type Stats struct {
	Cycles   uint64 `json:"cycles"`
	Skipped  uint64 `json:"skipped"`
	NotReady uint64 `json:"not_ready"`
	Still    uint64 `json:"still"`
	Events   uint64 `json:"events"`
}

// App runs the detection loop and publishes display changes.
type App struct {
	config    Config
	camera    capture.Camera
	detector  detector.Detector
	estimator *gesture.Estimator
	machine   *display.Machine
	smoother  *detector.Smoother
	gate      *capture.MotionGate
	snapshots *capture.Snapshots

	enabled     bool
	mu          sync.RWMutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	busy        atomic.Bool
	cycleMu     sync.Mutex
	lastResults []gesture.Estimate
	reopenEvery time.Duration
	lastOpen    time.Time

	subMu       sync.RWMutex
	subscribers []func(display.Event)

	cycles   atomic.Uint64
	skipped  atomic.Uint64
	notReady atomic.Uint64
	still    atomic.Uint64
	events   atomic.Uint64
}

// New creates an App. The gesture registry is frozen here: built-ins first,
// then any custom gestures found in the store.
func New(config Config) *App {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}

	custom := loadCustomGestures(config.Store)
	registry := gesture.DefaultRegistry(custom...)
	for _, d := range registry.Descriptors() {
		if err := d.Validate(); err != nil {
			log.Printf("Gesture %s: %v", d.Name(), err)
		}
	}
	log.Printf("Registered %d gestures (%d custom)", registry.Len(), len(custom))

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		estimator: gesture.NewEstimator(registry, gesture.EstimatorConfig{NoiseFloor: config.NoiseFloor}),
		machine:   display.NewMachine(config.AcceptThreshold),
		snapshots: capture.NewSnapshots(),
		enabled:   true,

		reopenEvery: reopenInterval,
	}
	if config.Smoothing {
		a.smoother = detector.NewSmoother(config.Interval.Seconds())
	}
	if config.MotionGate {
		a.gate = capture.NewMotionGate(capture.DefaultMotionThreshold, stillLimit(config.Interval))
	}

	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	if config.Store != nil {
		a.Subscribe(a.recordEvent)
	}
	return a
}

// stillLimit is how many still frames add up to about a second, at least one.
func stillLimit(interval time.Duration) int {
	return max(1, int(time.Second/interval))
}

func loadCustomGestures(st *store.Store) []*gesture.Descriptor {
	if st == nil {
		return nil
	}
	descs, errs := st.Gestures().Descriptors()
	for _, err := range errs {
		log.Printf("Failed to load custom gesture: %v", err)
	}
	return descs
}

func (a *App) recordEvent(ev display.Event) {
	err := a.config.Store.Events().Record(&store.Event{
		Sign:       ev.Current.Sign.String(),
		Previous:   ev.Previous.Sign.String(),
		Gesture:    ev.Gesture,
		Message:    ev.Current.Message,
		Confidence: ev.Confidence,
		CreatedAt:  ev.At,
	})
	if err != nil {
		log.Printf("Failed to record display event: %v", err)
	}
}

// Subscribe registers fn to receive every display change. Callbacks run on
// the detection goroutine and must not block.
func (a *App) Subscribe(fn func(display.Event)) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

func (a *App) publish(ev display.Event) {
	a.events.Add(1)
	log.Printf("Display: %s -> %s (%s %.3f)", ev.Previous.Sign, ev.Current.Sign, ev.Gesture, ev.Confidence)

	a.subMu.RLock()
	subs := append(([]func(display.Event))(nil), a.subscribers...)
	a.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// SetEnabled pauses or resumes detection. Pausing clears the display and
// waits for an in-flight cycle, so no sign is shown once it returns.
func (a *App) SetEnabled(enabled bool) {
	a.cycleMu.Lock()
	defer a.cycleMu.Unlock()

	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if !enabled {
		if ev, changed := a.machine.Step(nil); changed {
			a.publish(ev)
		}
	}
}

// IsEnabled returns whether detection is running.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector replaces the hand detector.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the frame source. Call before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start opens the camera and begins the detection loop. The loop runs even
// when the camera fails to open; cycles retry it and Start returns the first
// error. Starting a running app is a no-op.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}

	openErr := a.camera.Open()
	if openErr == nil {
		a.camera.SetFPS(capture.FPSForInterval(a.config.Interval.Milliseconds()))
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.runPipeline(ctx)
	}()

	log.Printf("Detection pipeline started (every %s)", a.config.Interval)
	return openErr
}

// Stop halts the loop, waits for an in-flight cycle and releases the camera
// and detector.
func (a *App) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if a.gate != nil {
		a.gate.Close()
	}
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// State returns what the display currently shows.
func (a *App) State() display.State {
	return a.machine.State()
}

// LastEstimates returns the estimates of the most recent completed cycle.
func (a *App) LastEstimates() []gesture.Estimate {
	a.cycleMu.Lock()
	defer a.cycleMu.Unlock()
	return append([]gesture.Estimate(nil), a.lastResults...)
}

// Stats returns pipeline counters.
func (a *App) Stats() Stats {
	return Stats{
		Cycles:   a.cycles.Load(),
		Skipped:  a.skipped.Load(),
		NotReady: a.notReady.Load(),
		Still:    a.still.Load(),
		Events:   a.events.Load(),
	}
}

// Registry returns the frozen gesture registry.
func (a *App) Registry() *gesture.Registry {
	return a.estimator.Registry()
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Snapshots returns the latest-frame buffer fed by the pipeline.
func (a *App) Snapshots() *capture.Snapshots {
	return a.snapshots
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Tolerance returns the direction tolerance in degrees.
func (a *App) Tolerance() float64 {
	return a.config.Tolerance
}
