// Package gesture scores hand landmarks against declarative gesture descriptors.
package gesture

import (
	"fmt"
	"math"

	"github.com/ayusman/handsign/internal/detector"
)

// Finger identifies one digit of the hand.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// NumFingers is the number of fingers on a hand.
const NumFingers = 5

// AllFingers lists the fingers in landmark order.
var AllFingers = [NumFingers]Finger{Thumb, Index, Middle, Ring, Pinky}

var fingerNames = [NumFingers]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < 0 || int(f) >= NumFingers {
		return fmt.Sprintf("finger(%d)", int(f))
	}
	return fingerNames[f]
}

// joints returns the landmark indices of the finger from base to tip.
func (f Finger) joints() [4]int {
	switch f {
	case Thumb:
		return [4]int{detector.ThumbCMC, detector.ThumbMCP, detector.ThumbIP, detector.ThumbTip}
	case Index:
		return [4]int{detector.IndexMCP, detector.IndexPIP, detector.IndexDIP, detector.IndexTip}
	case Middle:
		return [4]int{detector.MiddleMCP, detector.MiddlePIP, detector.MiddleDIP, detector.MiddleTip}
	case Ring:
		return [4]int{detector.RingMCP, detector.RingPIP, detector.RingDIP, detector.RingTip}
	default:
		return [4]int{detector.PinkyMCP, detector.PinkyPIP, detector.PinkyDIP, detector.PinkyTip}
	}
}

// curlPoints returns the start, middle and end landmarks used to measure
// curl. Fingers are measured from the wrist through the PIP joint; the thumb
// from its CMC joint through the IP joint.
func (f Finger) curlPoints() (start, mid, end int) {
	j := f.joints()
	if f == Thumb {
		return j[0], j[2], j[3]
	}
	return detector.Wrist, j[1], j[3]
}

// ParseFinger converts a finger name to a Finger.
func ParseFinger(s string) (Finger, error) {
	for i, name := range fingerNames {
		if name == s {
			return Finger(i), nil
		}
	}
	return 0, fmt.Errorf("unknown finger %q", s)
}

// Curl is a discretized bend amount of a finger.
type Curl int

const (
	NoCurl Curl = iota
	HalfCurl
	FullCurl
)

var curlNames = [...]string{"no_curl", "half_curl", "full_curl"}

func (c Curl) String() string {
	if c < 0 || int(c) >= len(curlNames) {
		return fmt.Sprintf("curl(%d)", int(c))
	}
	return curlNames[c]
}

// ParseCurl converts a curl name to a Curl.
func ParseCurl(s string) (Curl, error) {
	for i, name := range curlNames {
		if name == s {
			return Curl(i), nil
		}
	}
	return 0, fmt.Errorf("unknown curl %q", s)
}

// Bend ranges in degrees for each curl category, and the soft margin over
// which membership fades to zero outside a range.
const (
	NoCurlMaxBend   = 20.0
	HalfCurlMaxBend = 120.0
	MaxBend         = 180.0
	CurlMargin      = 20.0
)

// bendRange returns the inclusive bend interval covered by c.
func (c Curl) bendRange() (lo, hi float64) {
	switch c {
	case NoCurl:
		return 0, NoCurlMaxBend
	case HalfCurl:
		return NoCurlMaxBend, HalfCurlMaxBend
	default:
		return HalfCurlMaxBend, MaxBend
	}
}

// Membership returns how well bend falls into c, 1 inside the range and
// decreasing linearly to 0 over CurlMargin degrees outside it.
func (c Curl) Membership(bend float64) float64 {
	if math.IsNaN(bend) {
		return 0
	}
	lo, hi := c.bendRange()
	var dist float64
	switch {
	case bend < lo:
		dist = lo - bend
	case bend > hi:
		dist = bend - hi
	default:
		return 1
	}
	return math.Max(0, 1-dist/CurlMargin)
}

// ClassifyCurl returns the category whose range contains bend.
func ClassifyCurl(bend float64) Curl {
	switch {
	case bend <= NoCurlMaxBend:
		return NoCurl
	case bend <= HalfCurlMaxBend:
		return HalfCurl
	default:
		return FullCurl
	}
}

// Direction is a discretized pointing orientation of a fingertip segment.
type Direction int

const (
	VerticalUp Direction = iota
	VerticalDown
	HorizontalLeft
	HorizontalRight
	DiagonalUpLeft
	DiagonalUpRight
	DiagonalDownLeft
	DiagonalDownRight
)

const numDirections = 8

var directionNames = [numDirections]string{
	"vertical_up", "vertical_down", "horizontal_left", "horizontal_right",
	"diagonal_up_left", "diagonal_up_right", "diagonal_down_left", "diagonal_down_right",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= numDirections {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection converts a direction name to a Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Reference returns the image-plane unit vector of d. Image y grows downward.
func (d Direction) Reference() (x, y float64) {
	const h = math.Sqrt2 / 2
	switch d {
	case VerticalUp:
		return 0, -1
	case VerticalDown:
		return 0, 1
	case HorizontalLeft:
		return -1, 0
	case HorizontalRight:
		return 1, 0
	case DiagonalUpLeft:
		return -h, -h
	case DiagonalUpRight:
		return h, -h
	case DiagonalDownLeft:
		return -h, h
	default:
		return h, h
	}
}
