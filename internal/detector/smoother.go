package detector

import (
	kalman_filter "github.com/LdDl/kalman-filter"
)

// Kalman filter props for landmark smoothing. There is no control input:
// a hand held still must stay exactly where the model put it.
const (
	smoothStdDevA  = 2.0
	smoothStdDevMx = 0.1
	smoothStdDevMy = 0.1
)

// Smoother damps per-frame jitter of the image-plane landmark coordinates
// with one 2D Kalman filter per landmark. Depth is passed through untouched.
// A Smoother is owned by a single detection loop and is not safe for
// concurrent use.
type Smoother struct {
	dt      float64
	filters []*kalman_filter.Kalman2D
}

// NewSmoother creates a Smoother for frames arriving every dt seconds.
func NewSmoother(dt float64) *Smoother {
	if dt <= 0 {
		dt = 1.0
	}
	return &Smoother{dt: dt}
}

// Reset forgets the tracked hand. The next Smooth call starts fresh.
func (s *Smoother) Reset() {
	s.filters = nil
}

// Smooth returns the filtered landmarks. Incomplete or non-finite input
// resets the filters and is returned unchanged so the estimator can treat
// it as degenerate.
func (s *Smoother) Smooth(points []Point3D) []Point3D {
	if len(points) < NumLandmarks {
		s.Reset()
		return points
	}
	for _, p := range points {
		if !p.IsFinite() {
			s.Reset()
			return points
		}
	}

	out := make([]Point3D, len(points))
	copy(out, points)

	if s.filters == nil {
		s.filters = make([]*kalman_filter.Kalman2D, NumLandmarks)
		for i := 0; i < NumLandmarks; i++ {
			s.filters[i] = kalman_filter.NewKalman2D(s.dt, 0, 0, smoothStdDevA, smoothStdDevMx, smoothStdDevMy,
				kalman_filter.WithState2D(points[i].X, points[i].Y))
		}
		return out
	}

	for i := 0; i < NumLandmarks; i++ {
		kf := s.filters[i]
		kf.Predict()
		if err := kf.Update(points[i].X, points[i].Y); err != nil {
			s.Reset()
			return points
		}
		out[i].X, out[i].Y = kf.GetState()
	}

	return out
}
