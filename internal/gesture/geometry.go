package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/handsign/internal/detector"
)

// minSegment is the shortest segment length treated as non-degenerate.
const minSegment = 1e-9

// FingerGeometry is the measured shape of one finger.
type FingerGeometry struct {
	// Bend is the curl in degrees: 0 for a straight finger, up to 180.
	Bend float64
	// Direction is the unit vector of the distal segment.
	Direction r3.Vec
	// Valid is false when the landmarks of this finger are degenerate.
	// An invalid finger matches nothing.
	Valid bool
}

// HandGeometry holds the geometry of every finger, indexed by Finger.
type HandGeometry [NumFingers]FingerGeometry

// Analyze measures curl and direction for each finger. It reports false
// when the landmark set is too short to describe a hand.
func Analyze(points []detector.Point3D) (HandGeometry, bool) {
	var hg HandGeometry
	if len(points) < detector.NumLandmarks {
		return hg, false
	}
	for _, f := range AllFingers {
		hg[f] = measureFinger(points, f)
	}
	return hg, true
}

func measureFinger(points []detector.Point3D, f Finger) FingerGeometry {
	si, mi, ei := f.curlPoints()
	start, mid, end := points[si], points[mi], points[ei]
	if !start.IsFinite() || !mid.IsFinite() || !end.IsFinite() {
		return FingerGeometry{}
	}

	toStart := r3.Sub(vec(start), vec(mid))
	toEnd := r3.Sub(vec(end), vec(mid))
	if r3.Norm(toStart) < minSegment || r3.Norm(toEnd) < minSegment {
		return FingerGeometry{}
	}

	// atan2 keeps precision near 0 and 180 degrees where acos does not.
	interior := math.Atan2(r3.Norm(r3.Cross(toStart, toEnd)), r3.Dot(toStart, toEnd))

	return FingerGeometry{
		Bend:      180 - degrees(interior),
		Direction: r3.Unit(toEnd),
		Valid:     true,
	}
}

// Curl returns the category containing the measured bend.
func (g FingerGeometry) Curl() Curl {
	return ClassifyCurl(g.Bend)
}

// AngleTo returns the angle in degrees between the finger's direction,
// projected onto the image plane, and the reference vector of d. It reports
// false when the finger points straight at the camera or is invalid.
func (g FingerGeometry) AngleTo(d Direction) (float64, bool) {
	if !g.Valid {
		return 0, false
	}
	x, y := g.Direction.X, g.Direction.Y
	if math.Hypot(x, y) < minSegment {
		return 0, false
	}
	rx, ry := d.Reference()
	cross := x*ry - y*rx
	dot := x*rx + y*ry
	return degrees(math.Atan2(math.Abs(cross), dot)), true
}

// NearestDirection returns the direction category closest to the finger's
// pointing direction.
func (g FingerGeometry) NearestDirection() (Direction, bool) {
	best, bestAngle := VerticalUp, math.Inf(1)
	for d := Direction(0); d < numDirections; d++ {
		angle, ok := g.AngleTo(d)
		if !ok {
			return 0, false
		}
		if angle < bestAngle {
			best, bestAngle = d, angle
		}
	}
	return best, true
}

func vec(p detector.Point3D) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
