package gesture

import (
	"fmt"
	"math"
	"strings"
)

// CurlWeight is an accepted curl category and the confidence it carries.
type CurlWeight struct {
	Curl   Curl
	Weight float64
}

// DirectionWeight is an accepted direction category and the confidence it carries.
type DirectionWeight struct {
	Direction Direction
	Weight    float64
}

// FingerRule is what a descriptor expects from one finger.
type FingerRule struct {
	Curls      []CurlWeight
	Directions []DirectionWeight
	// Importance multiplies the finger's contribution. Defaults to 1.
	Importance float64
}

func (r FingerRule) clone() FingerRule {
	out := r
	out.Curls = append([]CurlWeight(nil), r.Curls...)
	out.Directions = append([]DirectionWeight(nil), r.Directions...)
	return out
}

// maxCurlWeight returns the best weight any curl entry can contribute.
func (r FingerRule) maxCurlWeight() float64 {
	var best float64
	for _, cw := range r.Curls {
		best = math.Max(best, cw.Weight)
	}
	return best
}

func (r FingerRule) maxDirectionWeight() float64 {
	var best float64
	for _, dw := range r.Directions {
		best = math.Max(best, dw.Weight)
	}
	return best
}

// Descriptor is a named, per-finger weighted description of a static hand pose.
// Build it once with AddCurl, AddDirection and SetWeight, then freeze it into
// a Registry.
type Descriptor struct {
	name    string
	fingers [NumFingers]FingerRule
}

// NewDescriptor creates an empty descriptor with every finger importance set to 1.
func NewDescriptor(name string) *Descriptor {
	d := &Descriptor{name: name}
	for i := range d.fingers {
		d.fingers[i].Importance = 1
	}
	return d
}

// Name returns the canonical gesture name.
func (d *Descriptor) Name() string {
	return d.name
}

// AddCurl accepts curl c on finger f with weight w in [0,1]. Adding the same
// curl twice replaces the earlier weight.
func (d *Descriptor) AddCurl(f Finger, c Curl, w float64) {
	if !validFinger(f) {
		return
	}
	rule := &d.fingers[f]
	w = clampWeight(w)
	for i := range rule.Curls {
		if rule.Curls[i].Curl == c {
			rule.Curls[i].Weight = w
			return
		}
	}
	rule.Curls = append(rule.Curls, CurlWeight{Curl: c, Weight: w})
}

// AddDirection accepts direction dir on finger f with weight w in [0,1].
// A zero weight documents a direction that earns nothing.
func (d *Descriptor) AddDirection(f Finger, dir Direction, w float64) {
	if !validFinger(f) {
		return
	}
	rule := &d.fingers[f]
	w = clampWeight(w)
	for i := range rule.Directions {
		if rule.Directions[i].Direction == dir {
			rule.Directions[i].Weight = w
			return
		}
	}
	rule.Directions = append(rule.Directions, DirectionWeight{Direction: dir, Weight: w})
}

// SetWeight sets the importance multiplier of finger f.
func (d *Descriptor) SetWeight(f Finger, importance float64) {
	if !validFinger(f) || importance < 0 || math.IsNaN(importance) {
		return
	}
	d.fingers[f].Importance = importance
}

// Rule returns a copy of the expectations for finger f.
func (d *Descriptor) Rule(f Finger) FingerRule {
	if !validFinger(f) {
		return FingerRule{}
	}
	return d.fingers[f].clone()
}

// Validate reports fingers that declare entries but can never score
// because every weight is zero. Scoring does not depend on it.
func (d *Descriptor) Validate() error {
	var bad []string
	for _, f := range AllFingers {
		rule := d.fingers[f]
		if len(rule.Curls) > 0 && rule.maxCurlWeight() == 0 {
			bad = append(bad, f.String()+" curl")
		}
		if len(rule.Directions) > 0 && rule.maxDirectionWeight() == 0 {
			bad = append(bad, f.String()+" direction")
		}
	}
	if len(bad) == 0 && d.maxScore() == 0 {
		return fmt.Errorf("gesture %q has no scoring entries", d.name)
	}
	if len(bad) > 0 {
		return fmt.Errorf("gesture %q has all-zero weights for %s", d.name, strings.Join(bad, ", "))
	}
	return nil
}

// maxScore is the score of a perfect match.
func (d *Descriptor) maxScore() float64 {
	var total float64
	for _, rule := range d.fingers {
		total += rule.Importance * (rule.maxCurlWeight() + rule.maxDirectionWeight())
	}
	return total
}

func (d *Descriptor) clone() *Descriptor {
	out := &Descriptor{name: d.name}
	for i, rule := range d.fingers {
		out.fingers[i] = rule.clone()
	}
	return out
}

func validFinger(f Finger) bool {
	return f >= 0 && int(f) < NumFingers
}

func clampWeight(w float64) float64 {
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	return math.Min(w, 1)
}

// Registry is the frozen, ordered collection of descriptors the estimator
// scores against. It is immutable after construction and safe to share.
type Registry struct {
	descs []*Descriptor
}

// NewRegistry freezes copies of descs in the given order. Later changes to
// the builders do not affect the registry.
func NewRegistry(descs ...*Descriptor) *Registry {
	r := &Registry{descs: make([]*Descriptor, 0, len(descs))}
	for _, d := range descs {
		if d == nil {
			continue
		}
		r.descs = append(r.descs, d.clone())
	}
	return r
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.descs)
}

// Names returns the descriptor names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.descs))
	for i, d := range r.descs {
		names[i] = d.name
	}
	return names
}

// Descriptors returns copies of the registered descriptors.
func (r *Registry) Descriptors() []*Descriptor {
	if r == nil {
		return nil
	}
	out := make([]*Descriptor, len(r.descs))
	for i, d := range r.descs {
		out[i] = d.clone()
	}
	return out
}

// Lookup returns a copy of the first descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	if r == nil {
		return nil, false
	}
	for _, d := range r.descs {
		if d.name == name {
			return d.clone(), true
		}
	}
	return nil, false
}
