package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ayusman/handsign/internal/display"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/testdata"
)

// point is the outcome of one recording at one tolerance, averaged over the
// frames that contain a hand.
type point struct {
	Tolerance float64
	// Own is the mean confidence of the recorded gesture.
	Own float64
	// Rival is the mean confidence of the strongest other gesture.
	Rival float64
	// Accepted is the share of frames where the recorded gesture is selected.
	Accepted float64
}

type series struct {
	Name    string
	Gesture string
	Points  []point
}

// tolerances returns lo, lo+step, ... up to and including hi.
func tolerances(lo, hi, step float64) ([]float64, error) {
	if !(step > 0) {
		return nil, errors.Errorf("step must be positive, got %v", step)
	}
	if lo < 0 || hi < lo {
		return nil, errors.Errorf("invalid tolerance range [%v, %v]", lo, hi)
	}
	var out []float64
	for i := 0; ; i++ {
		t := lo + float64(i)*step
		if t > hi+1e-9 {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

// sweep scores rec at every tolerance.
func sweep(est *gesture.Estimator, name string, rec *testdata.Recording, tols []float64, threshold float64) series {
	s := series{Name: name, Gesture: rec.Gesture}
	for _, tol := range tols {
		p := point{Tolerance: tol}
		var frames int
		for _, frame := range rec.Frames {
			estimates := est.Estimate(frame, tol)
			if len(estimates) == 0 {
				continue
			}
			frames++

			rival := 0.0
			for _, e := range estimates {
				if e.Name == rec.Gesture {
					p.Own += e.Confidence
				} else if e.Confidence > rival {
					rival = e.Confidence
				}
			}
			p.Rival += rival

			if best, ok := display.Select(estimates, threshold); ok && best.Name == rec.Gesture {
				p.Accepted++
			}
		}
		if frames > 0 {
			p.Own /= float64(frames)
			p.Rival /= float64(frames)
			p.Accepted /= float64(frames)
		}
		s.Points = append(s.Points, p)
	}
	return s
}

func writeTable(w io.Writer, all []series) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "recording\ttolerance\town\trival\taccepted")
	for _, s := range all {
		for _, p := range s.Points {
			fmt.Fprintf(tw, "%s\t%.0f\t%.3f\t%.3f\t%.0f%%\n", s.Name, p.Tolerance, p.Own, p.Rival, p.Accepted*100)
		}
	}
	return tw.Flush()
}

// writePlot charts own-gesture confidence against tolerance, one line per
// recording, with the accept threshold as a reference line.
func writePlot(path string, all []series, threshold float64) error {
	p := plot.New()
	p.Title.Text = "Confidence vs direction tolerance"
	p.X.Label.Text = "Tolerance (degrees)"
	p.Y.Label.Text = "Mean confidence"
	p.Y.Min = 0
	p.Y.Max = 1.05
	p.Legend.Top = true
	p.Legend.Left = true

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range all {
		if len(s.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, 0, len(s.Points))
		for _, pt := range s.Points {
			pts = append(pts, plotter.XY{X: pt.Tolerance, Y: pt.Own})
		}
		lo = math.Min(lo, pts[0].X)
		hi = math.Max(hi, pts[len(pts)-1].X)

		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "line for %s", s.Name)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	if lo > hi {
		return errors.New("nothing to plot")
	}
	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: threshold}, {X: hi, Y: threshold}})
	if err != nil {
		return errors.Wrap(err, "threshold line")
	}
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(ref)
	p.Legend.Add(fmt.Sprintf("threshold %.2f", threshold), ref)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "save plot")
	}
	return nil
}
