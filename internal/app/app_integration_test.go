package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/detector"
	"github.com/ayusman/handsign/internal/display"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/store"
	"github.com/ayusman/handsign/testdata"
)

func newStoreApp(t *testing.T, s *store.Store) (*App, *detector.MockDetector) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Store = s
	a := New(cfg)

	det := detector.NewMockDetector()
	cam := capture.NewMockCamera(nil, false)
	a.SetDetector(det)
	a.SetCamera(cam)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return a, det
}

func TestApp_RecordsDisplayEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, det := newStoreApp(t, s)

	rec, err := testdata.Load("sequence")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for i := range rec.Frames {
		det.SetHands(rec.Hands(i))
		a.RunCycle(context.Background())
	}

	events, err := s.Events().Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	want := []string{"peace", "ily", "none", "namaste"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Sign != want[i] {
			t.Errorf("events[%d].Sign = %q, want %q", i, e.Sign, want[i])
		}
	}
	if events[0].Gesture != gesture.NameVictory {
		t.Errorf("events[0].Gesture = %q, want %q", events[0].Gesture, gesture.NameVictory)
	}
	if events[0].Previous != "ily" {
		t.Errorf("events[0].Previous = %q, want ily", events[0].Previous)
	}
}

func TestApp_Recordings(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	for _, name := range []string{"namaste", "ily", "ok", "victory", "thumbs_up"} {
		t.Run(name, func(t *testing.T) {
			a, det := newStoreApp(t, nil)
			rec, err := testdata.Load(name)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			var events int
			for i := range rec.Frames {
				det.SetHands(rec.Hands(i))
				if _, changed := a.RunCycle(context.Background()); changed {
					events++
				}
			}

			want, _ := display.Resolve(rec.Gesture)
			if got := a.State().Sign; got != want {
				t.Errorf("State().Sign = %s, want %s", got, want)
			}
			if events != 1 {
				t.Errorf("got %d display changes over a held sign, want 1", events)
			}
		})
	}
}

func TestApp_LoadsCustomGestures(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	point := gesture.Definition{Fingers: []gesture.FingerDefinition{{
		Finger:     "index",
		Curls:      []gesture.CategoryWeight{{Category: "no_curl", Weight: 1}},
		Directions: []gesture.CategoryWeight{{Category: "vertical_up", Weight: 1}},
	}}}
	if err := s.Gestures().Create(&store.Gesture{Name: "point", Definition: point}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	a, det := newStoreApp(t, s)

	names := a.Registry().Names()
	if len(names) != 6 || names[5] != "point" {
		t.Fatalf("registry names = %v, want built-ins then point", names)
	}

	// point also scores 1.0 on an open palm; namaste is registered first
	// and wins the tie.
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
	a.RunCycle(context.Background())
	if got := a.State().Sign; got != display.SignNamaste {
		t.Errorf("State().Sign = %s, want namaste", got)
	}
}
