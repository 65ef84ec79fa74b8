package detector

import (
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Headings of the distal finger segment, in degrees counterclockwise from
// image right with y pointing up on screen.
const (
	HeadingRight     = 0.0
	HeadingUpRight   = 45.0
	HeadingUp        = 90.0
	HeadingUpLeft    = 135.0
	HeadingLeft      = 180.0
	HeadingDownLeft  = 225.0
	HeadingDown      = 270.0
	HeadingDownRight = 315.0
)

// FingerPose describes one synthetic finger: Bend is the curl in degrees
// (0 is straight) and Heading the on-screen direction of the fingertip segment.
type FingerPose struct {
	Bend    float64
	Heading float64
}

// HandPose holds one FingerPose per finger, thumb first.
type HandPose [5]FingerPose

// Synthetic segment lengths in normalized image units.
const (
	proximalLen = 0.2
	distalLen   = 0.1
)

var syntheticWrist = Point3D{X: 0.5, Y: 0.9}

// SyntheticHand builds landmarks whose curl and tip direction match pose
// exactly. For the four fingers the proximal leg starts at the wrist; the
// thumb starts from its CMC joint.
func SyntheticHand(pose HandPose) HandLandmarks {
	hand := HandLandmarks{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}
	hand.Points[Wrist] = syntheticWrist

	chains := [5][4]int{
		{ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
		{IndexMCP, IndexPIP, IndexDIP, IndexTip},
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
		{RingMCP, RingPIP, RingDIP, RingTip},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
	}

	for f, fp := range pose {
		chain := chains[f]
		tipDir := headingVector(fp.Heading)
		baseDir := headingVector(fp.Heading - fp.Bend)

		if f == 0 {
			cmc := Point3D{X: syntheticWrist.X + 0.05, Y: syntheticWrist.Y - 0.03}
			ip := offset(cmc, baseDir, proximalLen)
			tip := offset(ip, tipDir, distalLen)
			hand.Points[chain[0]] = cmc
			hand.Points[chain[1]] = midpoint(cmc, ip)
			hand.Points[chain[2]] = ip
			hand.Points[chain[3]] = tip
			continue
		}

		pip := offset(syntheticWrist, baseDir, proximalLen)
		tip := offset(pip, tipDir, distalLen)
		hand.Points[chain[0]] = midpoint(syntheticWrist, pip)
		hand.Points[chain[1]] = pip
		hand.Points[chain[2]] = midpoint(pip, tip)
		hand.Points[chain[3]] = tip
	}

	return hand
}

// headingVector converts an on-screen heading to an image-space unit vector.
func headingVector(deg float64) Point3D {
	rad := deg * math.Pi / 180
	return Point3D{X: math.Cos(rad), Y: -math.Sin(rad)}
}

func offset(p, dir Point3D, length float64) Point3D {
	return Point3D{X: p.X + dir.X*length, Y: p.Y + dir.Y*length, Z: p.Z + dir.Z*length}
}

func midpoint(a, b Point3D) Point3D {
	return Point3D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}

// Preset poses for the signs the application recognizes.
var (
	// NamastePose: every finger straight and pointing up.
	NamastePose = HandPose{
		{Bend: 0, Heading: HeadingUp},
		{Bend: 0, Heading: HeadingUp},
		{Bend: 0, Heading: HeadingUp},
		{Bend: 0, Heading: HeadingUp},
		{Bend: 0, Heading: HeadingUp},
	}

	// ILYPose: thumb out sideways, index and pinky up, middle and ring folded.
	ILYPose = HandPose{
		{Bend: 0, Heading: HeadingRight},
		{Bend: 0, Heading: HeadingUp},
		{Bend: 160, Heading: HeadingDown},
		{Bend: 160, Heading: HeadingDown},
		{Bend: 0, Heading: HeadingUp},
	}

	// OKPose: thumb and index half curled into a ring, the rest straight up.
	OKPose = HandPose{
		{Bend: 70, Heading: HeadingUpLeft},
		{Bend: 70, Heading: HeadingLeft},
		{Bend: 0, Heading: HeadingUp},
		{Bend: 0, Heading: HeadingUp},
		{Bend: 0, Heading: HeadingUp},
	}

	// VictoryPose: index and middle up, ring and pinky folded.
	VictoryPose = HandPose{
		{Bend: 70, Heading: HeadingUpLeft},
		{Bend: 0, Heading: HeadingUpLeft},
		{Bend: 0, Heading: HeadingUp},
		{Bend: 160, Heading: HeadingUpLeft},
		{Bend: 160, Heading: HeadingUpLeft},
	}

	// ThumbsUpPose: thumb straight up, the four fingers folded sideways.
	ThumbsUpPose = HandPose{
		{Bend: 0, Heading: HeadingUp},
		{Bend: 160, Heading: HeadingRight},
		{Bend: 160, Heading: HeadingRight},
		{Bend: 160, Heading: HeadingRight},
		{Bend: 160, Heading: HeadingRight},
	}
)

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
func ThumbsUpLandmarks() HandLandmarks {
	return SyntheticHand(ThumbsUpPose)
}

// OpenPalmLandmarks returns a preset HandLandmarks with every finger extended upward.
func OpenPalmLandmarks() HandLandmarks {
	return SyntheticHand(NamastePose)
}
