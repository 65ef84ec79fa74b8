package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// GaussianBlurSize is the blur kernel applied before differencing.
	GaussianBlurSize = 21
	// DiffThreshold is the per-pixel intensity change counted as motion.
	DiffThreshold = 25
	// DefaultMotionThreshold is the percentage of changed pixels that
	// counts as motion.
	DefaultMotionThreshold = 1.0
)

// MotionGate reports whether a frame differs from the previous one enough
// to be worth running hand detection on. A still scene cannot change the
// displayed sign, so the pipeline may skip it.
type MotionGate struct {
	threshold float64
	// maxStill forces a pass after this many consecutive still frames.
	maxStill int
	still    int
	prevGray gocv.Mat
	primed   bool
	mu       sync.Mutex
}

// NewMotionGate creates a gate. threshold is a percentage of pixels;
// non-positive selects DefaultMotionThreshold. maxStill <= 0 never forces.
func NewMotionGate(threshold float64, maxStill int) *MotionGate {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionGate{
		threshold: threshold,
		maxStill:  maxStill,
		prevGray:  gocv.NewMat(),
	}
}

// Pass reports whether frame should be processed and the percentage of
// changed pixels. The first frame always passes.
func (m *MotionGate) Pass(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.primed || blurred.Rows() != m.prevGray.Rows() || blurred.Cols() != m.prevGray.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.primed = true
		m.still = 0
		return true, 100
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0
	blurred.CopyTo(&m.prevGray)

	if changed > m.threshold {
		m.still = 0
		return true, changed
	}
	m.still++
	if m.maxStill > 0 && m.still >= m.maxStill {
		m.still = 0
		return true, changed
	}
	return false, changed
}

// Reset forgets the baseline so the next frame passes.
func (m *MotionGate) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primed = false
	m.still = 0
}

// Close releases the baseline frame.
func (m *MotionGate) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prevGray.Close()
	m.prevGray = gocv.NewMat()
	m.primed = false
}
