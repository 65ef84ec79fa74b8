package gesture

import (
	"math"

	"github.com/ayusman/handsign/internal/detector"
)

// DefaultTolerance is the angular tolerance in degrees around each reference
// direction. A finger exactly on a reference scores full weight; the score
// falls linearly to zero at the tolerance.
const DefaultTolerance = 45.0

// Estimate is the confidence that one gesture matches the observed hand.
type Estimate struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// EstimatorConfig holds configuration options for the estimator.
type EstimatorConfig struct {
	// NoiseFloor drops estimates whose confidence is below it.
	NoiseFloor float64
}

// DefaultEstimatorConfig returns an EstimatorConfig that reports every gesture.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{NoiseFloor: 0}
}

// Estimator scores landmarks against a frozen registry. It holds no mutable
// state and is safe for concurrent use.
type Estimator struct {
	registry *Registry
	config   EstimatorConfig
}

// NewEstimator creates an Estimator over reg.
func NewEstimator(reg *Registry, config EstimatorConfig) *Estimator {
	return &Estimator{registry: reg, config: config}
}

// Registry returns the registry the estimator scores against.
func (e *Estimator) Registry() *Registry {
	return e.registry
}

// Estimate scores every registered gesture against points and returns the
// estimates in registration order. A short or empty landmark set means no
// hand and yields nil.
func (e *Estimator) Estimate(points []detector.Point3D, tolerance float64) []Estimate {
	hg, ok := Analyze(points)
	if !ok {
		return nil
	}
	return e.EstimateGeometry(hg, tolerance)
}

// EstimateGeometry scores already measured hand geometry.
func (e *Estimator) EstimateGeometry(hg HandGeometry, tolerance float64) []Estimate {
	if e.registry.Len() == 0 {
		return nil
	}
	estimates := make([]Estimate, 0, e.registry.Len())
	for _, d := range e.registry.descs {
		conf := Confidence(d, hg, tolerance)
		if conf < e.config.NoiseFloor {
			continue
		}
		estimates = append(estimates, Estimate{Name: d.name, Confidence: conf})
	}
	return estimates
}

// Confidence returns how well hg matches d, normalized to [0,1] by the
// score of a perfect match.
//
// Per finger the best weighted curl membership and the best weighted
// direction match are added, then scaled by the finger importance. Fingers
// without entries of a kind are unconstrained for that kind.
func Confidence(d *Descriptor, hg HandGeometry, tolerance float64) float64 {
	maxScore := d.maxScore()
	if maxScore <= 0 {
		return 0
	}

	var score float64
	for _, f := range AllFingers {
		rule := d.fingers[f]
		g := hg[f]
		if !g.Valid || rule.Importance == 0 {
			continue
		}
		score += rule.Importance * (curlMatch(rule, g) + directionMatch(rule, g, tolerance))
	}

	conf := score / maxScore
	if math.IsNaN(conf) {
		return 0
	}
	return math.Min(1, math.Max(0, conf))
}

func curlMatch(rule FingerRule, g FingerGeometry) float64 {
	var best float64
	for _, cw := range rule.Curls {
		best = math.Max(best, cw.Weight*cw.Curl.Membership(g.Bend))
	}
	return best
}

func directionMatch(rule FingerRule, g FingerGeometry, tolerance float64) float64 {
	var best float64
	for _, dw := range rule.Directions {
		angle, ok := g.AngleTo(dw.Direction)
		if !ok {
			return 0
		}
		best = math.Max(best, dw.Weight*angularScore(angle, tolerance))
	}
	return best
}

// angularScore maps an angular deviation to [0,1]. Larger tolerances never
// lower the score.
func angularScore(angle, tolerance float64) float64 {
	if tolerance <= 0 || math.IsNaN(tolerance) {
		if angle == 0 {
			return 1
		}
		return 0
	}
	return math.Max(0, 1-angle/tolerance)
}
