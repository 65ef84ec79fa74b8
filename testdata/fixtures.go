// Package testdata embeds recorded landmark sequences used by tests and tools.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ayusman/handsign/internal/detector"
)

//go:embed landmarks/*.json
var landmarksFS embed.FS

// Recording is a sequence of single-hand landmark frames. An empty frame
// means no hand was detected.
type Recording struct {
	// Gesture is the gesture held throughout, empty for mixed sequences.
	Gesture string              `json:"gesture"`
	Frames  [][]detector.Point3D `json:"frames"`
}

// Hands returns frame i as detector output.
func (r *Recording) Hands(i int) []detector.HandLandmarks {
	if len(r.Frames[i]) == 0 {
		return nil
	}
	return []detector.HandLandmarks{{Points: r.Frames[i], Handedness: "Right", Score: 1}}
}

// Load reads the named recording, e.g. "namaste".
func Load(name string) (*Recording, error) {
	data, err := landmarksFS.ReadFile(path.Join("landmarks", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", name, err)
	}
	return Parse(data)
}

// Parse decodes a recording.
func Parse(data []byte) (*Recording, error) {
	var r Recording
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	return &r, nil
}

// Names lists the embedded recordings.
func Names() []string {
	entries, err := landmarksFS.ReadDir("landmarks")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
