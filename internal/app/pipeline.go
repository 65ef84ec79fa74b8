package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/detector"
	"github.com/ayusman/handsign/internal/display"
)

// runPipeline fires one detection cycle per tick. A tick that arrives while
// the previous cycle is still running is dropped and counted.
func (a *App) runPipeline(ctx context.Context) {
	ticker := time.NewTicker(a.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			if !a.busy.CompareAndSwap(false, true) {
				a.skipped.Add(1)
				continue
			}
			a.wg.Add(1)
			go func() {
				defer a.wg.Done()
				defer a.busy.Store(false)
				a.RunCycle(ctx)
			}()
		}
	}
}

// RunCycle runs one detection cycle synchronously and returns the display
// change it caused, if any. A cycle whose camera or detector is not ready
// leaves the display untouched; a closed camera is reopened at most once per
// reopenEvery. Nothing happens while detection is paused.
func (a *App) RunCycle(ctx context.Context) (display.Event, bool) {
	if ctx.Err() != nil {
		return display.Event{}, false
	}

	a.cycleMu.Lock()
	defer a.cycleMu.Unlock()
	if !a.IsEnabled() {
		return display.Event{}, false
	}
	a.cycles.Add(1)

	cam, det := a.Camera(), a.Detector()
	if cam == nil || det == nil {
		a.notReady.Add(1)
		return display.Event{}, false
	}
	if !cam.IsOpen() {
		a.notReady.Add(1)
		a.reopen(cam)
		return display.Event{}, false
	}

	frame, err := cam.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrCameraNotOpen) || errors.Is(err, capture.ErrNoFrame) {
			a.notReady.Add(1)
		} else {
			log.Printf("Error reading frame: %v", err)
		}
		return display.Event{}, false
	}
	defer frame.Close()

	if a.snapshots.Watched() {
		if err := a.snapshots.Store(frame); err != nil {
			log.Printf("Error storing snapshot: %v", err)
		}
	}

	if a.gate != nil {
		if pass, _ := a.gate.Pass(frame); !pass {
			a.still.Add(1)
			return display.Event{}, false
		}
	}

	hands, err := det.Detect(frame)
	if err != nil {
		if errors.Is(err, detector.ErrNotReady) {
			a.notReady.Add(1)
		} else {
			log.Printf("Error detecting hands: %v", err)
		}
		return display.Event{}, false
	}

	points := detector.FirstHand(hands)
	if a.smoother != nil {
		if len(points) == 0 {
			a.smoother.Reset()
		} else {
			points = a.smoother.Smooth(points)
		}
	}

	estimates := a.estimator.Estimate(points, a.config.Tolerance)
	a.lastResults = estimates

	ev, changed := a.machine.Step(estimates)
	if changed {
		a.publish(ev)
	}
	return ev, changed
}

// reopen tries to open cam unless an attempt was made within reopenEvery.
// Callers hold cycleMu.
func (a *App) reopen(cam capture.Camera) {
	now := time.Now()
	if !a.lastOpen.IsZero() && now.Sub(a.lastOpen) < a.reopenEvery {
		return
	}
	a.lastOpen = now

	if err := cam.Open(); err != nil {
		log.Printf("Camera still unavailable: %v", err)
		return
	}
	cam.SetFPS(capture.FPSForInterval(a.config.Interval.Milliseconds()))
	log.Println("Camera opened")
}
