package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handsign/internal/app"
	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/detector"
	"github.com/ayusman/handsign/internal/server"
	"github.com/ayusman/handsign/internal/store"
	"github.com/ayusman/handsign/testdata"
)

const fistGesture = `{"name": "fist", "fingers": [
	{"finger": "thumb", "curls": [{"category": "half_curl", "weight": 1}]},
	{"finger": "index", "curls": [{"category": "full_curl", "weight": 1}]},
	{"finger": "middle", "curls": [{"category": "full_curl", "weight": 1}]},
	{"finger": "ring", "curls": [{"category": "full_curl", "weight": 1}]},
	{"finger": "pinky", "curls": [{"category": "full_curl", "weight": 1}]}]}`

type gestureList struct {
	Gestures []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Active bool   `json:"active"`
	} `json:"gestures"`
}

func getJSON(t *testing.T, client *http.Client, url string, v any) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, http.StatusOK)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func findGesture(list gestureList, name string) (id string, active, ok bool) {
	for _, g := range list.Gestures {
		if g.Name == name {
			return g.ID, g.Active, true
		}
	}
	return "", false, false
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	// A first run stores a custom gesture.
	t.Run("CreateGesture", func(t *testing.T) {
		ts := httptest.NewServer(server.New(server.Config{Store: s}))
		defer ts.Close()

		resp, err := ts.Client().Post(ts.URL+"/api/gestures", "application/json", strings.NewReader(fistGesture))
		if err != nil {
			t.Fatalf("create gesture error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var list gestureList
		getJSON(t, ts.Client(), ts.URL+"/api/gestures", &list)
		if _, active, ok := findGesture(list, "fist"); !ok || active {
			t.Errorf("fist listed=%v active=%v, want listed and inactive", ok, active)
		}
	})

	// The next run loads it into the registry.
	cfg := app.DefaultConfig()
	cfg.Store = s
	application := app.New(cfg)
	mockDetector := detector.NewMockDetector()
	application.SetDetector(mockDetector)
	cam := capture.NewMockCamera(nil, false)
	application.SetCamera(cam)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	hub := server.NewHub()
	defer hub.Close()
	application.Subscribe(hub.Publish)

	ts := httptest.NewServer(server.New(server.Config{
		Store:     s,
		Pipeline:  application,
		Snapshots: application.Snapshots(),
		Hub:       hub,
	}))
	defer ts.Close()
	client := ts.Client()

	t.Run("CustomGestureActive", func(t *testing.T) {
		var list gestureList
		getJSON(t, client, ts.URL+"/api/gestures", &list)
		if len(list.Gestures) != 6 {
			t.Fatalf("len(gestures) = %d, want 6", len(list.Gestures))
		}
		id, active, ok := findGesture(list, "fist")
		if !ok || !active || id == "" {
			t.Errorf("fist id=%q active=%v, want stored and active", id, active)
		}
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/display", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	type message struct {
		Type  string `json:"type"`
		State struct {
			Sign    string `json:"sign"`
			Message string `json:"message"`
		} `json:"state"`
	}
	read := func(t *testing.T) message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var m message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return m
	}

	if m := read(t); m.Type != "state" || m.State.Sign != "none" {
		t.Fatalf("initial message = %+v, want idle state", m)
	}

	t.Run("PlaySequence", func(t *testing.T) {
		rec, err := testdata.Load("sequence")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		for i := range rec.Frames {
			mockDetector.SetHands(rec.Hands(i))
			application.RunCycle(context.Background())
		}

		want := []string{"namaste", "none", "ily", "peace"}
		for i, sign := range want {
			m := read(t)
			if m.Type != "change" || m.State.Sign != sign {
				t.Errorf("message %d = %+v, want change to %s", i, m, sign)
			}
		}
	})

	t.Run("State", func(t *testing.T) {
		var state struct {
			Sign      string `json:"sign"`
			Message   string `json:"message"`
			Enabled   bool   `json:"enabled"`
			Estimates []struct {
				Name string `json:"name"`
			} `json:"estimates"`
		}
		getJSON(t, client, ts.URL+"/api/state", &state)

		if state.Sign != "peace" || state.Message != "PEACE! ✌️" {
			t.Errorf("state = %s %q, want peace", state.Sign, state.Message)
		}
		if !state.Enabled {
			t.Error("expected detection enabled")
		}
		if len(state.Estimates) != 6 {
			t.Errorf("len(estimates) = %d, want 6", len(state.Estimates))
		}
	})

	t.Run("Events", func(t *testing.T) {
		var events struct {
			Events []struct {
				Sign     string `json:"sign"`
				Previous string `json:"previous"`
			} `json:"events"`
		}
		getJSON(t, client, ts.URL+"/api/events?limit=2", &events)

		if len(events.Events) != 2 {
			t.Fatalf("len(events) = %d, want 2", len(events.Events))
		}
		if events.Events[0].Sign != "peace" || events.Events[0].Previous != "ily" {
			t.Errorf("newest event = %+v, want ily -> peace", events.Events[0])
		}
		if events.Events[1].Sign != "ily" {
			t.Errorf("second event = %+v, want ily", events.Events[1])
		}
	})

	t.Run("Pause", func(t *testing.T) {
		application.SetEnabled(false)
		if m := read(t); m.State.Sign != "none" {
			t.Errorf("message after pause = %+v, want idle", m)
		}
	})
}
