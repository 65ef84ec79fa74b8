package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handsign/internal/display"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/testdata"
)

func TestTolerances(t *testing.T) {
	got, err := tolerances(10, 30, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, got)

	got, err = tolerances(5, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, got)

	for _, bad := range [][3]float64{{0, 10, 0}, {10, 5, 1}, {-1, 5, 1}} {
		_, err := tolerances(bad[0], bad[1], bad[2])
		assert.Error(t, err, "range %v", bad)
	}
}

func TestSweep_Recordings(t *testing.T) {
	est := gesture.NewEstimator(gesture.DefaultRegistry(), gesture.DefaultEstimatorConfig())
	tols := []float64{10, 45, 90}

	for _, name := range []string{"namaste", "ily", "ok", "victory", "thumbs_up"} {
		t.Run(name, func(t *testing.T) {
			rec, err := testdata.Load(name)
			require.NoError(t, err)

			s := sweep(est, name, rec, tols, display.DefaultAcceptThreshold)
			require.Len(t, s.Points, len(tols))

			at45 := s.Points[1]
			assert.Equal(t, 1.0, at45.Accepted, "every frame accepted at the default tolerance")
			assert.Greater(t, at45.Own, at45.Rival)

			for i := 1; i < len(s.Points); i++ {
				assert.GreaterOrEqual(t, s.Points[i].Own, s.Points[i-1].Own-1e-9,
					"confidence must not drop as tolerance widens")
			}
		})
	}
}

func TestSweep_SkipsEmptyFrames(t *testing.T) {
	est := gesture.NewEstimator(gesture.DefaultRegistry(), gesture.DefaultEstimatorConfig())
	rec, err := testdata.Load("namaste")
	require.NoError(t, err)
	rec.Frames = append(rec.Frames, nil, nil)

	s := sweep(est, "namaste", rec, []float64{45}, display.DefaultAcceptThreshold)
	assert.Equal(t, 1.0, s.Points[0].Accepted)
}

func TestWriteTable(t *testing.T) {
	all := []series{{Name: "ok", Gesture: "ok", Points: []point{{Tolerance: 45, Own: 0.97, Rival: 0.5, Accepted: 1}}}}

	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, all))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"recording", "tolerance", "own", "rival", "accepted"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"ok", "45", "0.970", "0.500", "100%"}, strings.Fields(lines[1]))
}

func TestWritePlot(t *testing.T) {
	est := gesture.NewEstimator(gesture.DefaultRegistry(), gesture.DefaultEstimatorConfig())
	rec, err := testdata.Load("victory")
	require.NoError(t, err)
	s := sweep(est, "victory", rec, []float64{10, 20, 30}, 0.85)

	path := filepath.Join(t.TempDir(), "sweep.png")
	require.NoError(t, writePlot(path, []series{s}, 0.85))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, writePlot(filepath.Join(t.TempDir(), "empty.png"), nil, 0.85))
}

func TestLoadRecordings(t *testing.T) {
	recs, err := loadRecordings(nil)
	require.NoError(t, err)
	assert.Len(t, recs, len(testdata.Names()))

	path := filepath.Join(t.TempDir(), "mine.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gesture": "ok", "frames": [[]]}`), 0644))
	recs, err = loadRecordings([]string{path})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "mine", recs[0].name)
	assert.Equal(t, "ok", recs[0].rec.Gesture)

	_, err = loadRecordings([]string{filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}
