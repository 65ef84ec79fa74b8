package gesture

import (
	"fmt"
	"strings"
)

// Definition is the plain-data form of a Descriptor, used to persist
// custom gestures and to expose them over the API.
type Definition struct {
	Name    string             `json:"name"`
	Fingers []FingerDefinition `json:"fingers"`
}

// FingerDefinition lists the accepted categories of one finger.
type FingerDefinition struct {
	Finger     string           `json:"finger"`
	Curls      []CategoryWeight `json:"curls,omitempty"`
	Directions []CategoryWeight `json:"directions,omitempty"`
	Importance float64          `json:"importance,omitempty"`
}

// CategoryWeight pairs a curl or direction name with its weight.
type CategoryWeight struct {
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

// Definition returns the plain-data form of d. Fingers without any entry
// and with default importance are left out.
func (d *Descriptor) Definition() Definition {
	def := Definition{Name: d.name}
	for _, f := range AllFingers {
		rule := d.fingers[f]
		if len(rule.Curls) == 0 && len(rule.Directions) == 0 && rule.Importance == 1 {
			continue
		}
		fd := FingerDefinition{Finger: f.String()}
		if rule.Importance != 1 {
			fd.Importance = rule.Importance
		}
		for _, cw := range rule.Curls {
			fd.Curls = append(fd.Curls, CategoryWeight{Category: cw.Curl.String(), Weight: cw.Weight})
		}
		for _, dw := range rule.Directions {
			fd.Directions = append(fd.Directions, CategoryWeight{Category: dw.Direction.String(), Weight: dw.Weight})
		}
		def.Fingers = append(def.Fingers, fd)
	}
	return def
}

// Build turns a definition into a Descriptor. Unknown finger or category
// names are rejected; weights are taken as given.
func (def Definition) Build() (*Descriptor, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, fmt.Errorf("gesture name is required")
	}

	d := NewDescriptor(name)
	for _, fd := range def.Fingers {
		f, err := ParseFinger(fd.Finger)
		if err != nil {
			return nil, err
		}
		for _, cw := range fd.Curls {
			c, err := ParseCurl(cw.Category)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f, err)
			}
			d.AddCurl(f, c, cw.Weight)
		}
		for _, dw := range fd.Directions {
			dir, err := ParseDirection(dw.Category)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f, err)
			}
			d.AddDirection(f, dir, dw.Weight)
		}
		if fd.Importance > 0 {
			d.SetWeight(f, fd.Importance)
		}
	}
	return d, nil
}
