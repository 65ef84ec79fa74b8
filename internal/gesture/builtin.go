package gesture

// Canonical names of the built-in gestures.
const (
	NameVictory  = "victory"
	NameThumbsUp = "thumbs_up"
	NameILY      = "ily"
	NameNamaste  = "namaste"
	NameOK       = "ok"
)

// VictoryGesture describes the two-finger victory sign.
func VictoryGesture() *Descriptor {
	d := NewDescriptor(NameVictory)

	d.AddCurl(Thumb, HalfCurl, 0.5)
	d.AddCurl(Thumb, NoCurl, 0.5)
	d.AddDirection(Thumb, VerticalUp, 1.0)
	d.AddDirection(Thumb, DiagonalUpLeft, 1.0)

	d.AddCurl(Index, NoCurl, 1.0)
	d.AddDirection(Index, VerticalUp, 0.75)
	d.AddDirection(Index, DiagonalUpLeft, 1.0)

	d.AddCurl(Middle, NoCurl, 1.0)
	d.AddDirection(Middle, VerticalUp, 1.0)
	d.AddDirection(Middle, DiagonalUpLeft, 0.75)

	for _, f := range []Finger{Ring, Pinky} {
		d.AddCurl(f, FullCurl, 1.0)
		d.AddDirection(f, VerticalUp, 0.2)
		d.AddDirection(f, DiagonalUpLeft, 1.0)
		d.AddDirection(f, HorizontalLeft, 0.2)
	}

	d.SetWeight(Index, 2)
	d.SetWeight(Middle, 2)
	return d
}

// ThumbsUpGesture describes a raised thumb over a closed fist.
func ThumbsUpGesture() *Descriptor {
	d := NewDescriptor(NameThumbsUp)

	d.AddCurl(Thumb, NoCurl, 1.0)
	d.AddDirection(Thumb, VerticalUp, 1.0)
	d.AddDirection(Thumb, DiagonalUpLeft, 0.9)
	d.AddDirection(Thumb, DiagonalUpRight, 0.9)

	for _, f := range []Finger{Index, Middle, Ring, Pinky} {
		d.AddCurl(f, FullCurl, 1.0)
		d.AddCurl(f, HalfCurl, 0.9)
		d.AddDirection(f, HorizontalLeft, 1.0)
		d.AddDirection(f, HorizontalRight, 1.0)
	}
	return d
}

// ILYGesture describes the "I love you" sign: thumb, index and pinky out.
func ILYGesture() *Descriptor {
	d := NewDescriptor(NameILY)

	d.AddCurl(Thumb, NoCurl, 1.0)
	d.AddDirection(Thumb, HorizontalLeft, 1.0)
	d.AddDirection(Thumb, HorizontalRight, 1.0)
	d.AddDirection(Thumb, DiagonalUpLeft, 0.7)
	d.AddDirection(Thumb, DiagonalUpRight, 0.7)
	// A downward thumb earns nothing.
	d.AddDirection(Thumb, VerticalDown, 0)
	d.AddDirection(Thumb, DiagonalDownLeft, 0)
	d.AddDirection(Thumb, DiagonalDownRight, 0)

	d.AddCurl(Index, NoCurl, 1.0)
	d.AddDirection(Index, VerticalUp, 1.0)
	d.AddCurl(Pinky, NoCurl, 1.0)
	d.AddDirection(Pinky, VerticalUp, 1.0)

	d.AddCurl(Middle, FullCurl, 1.0)
	d.AddCurl(Ring, FullCurl, 1.0)

	d.SetWeight(Pinky, 2)
	return d
}

// NamasteGesture describes flat prayer hands: every finger straight up.
func NamasteGesture() *Descriptor {
	d := NewDescriptor(NameNamaste)
	for _, f := range AllFingers {
		d.AddCurl(f, NoCurl, 1.0)
		d.AddDirection(f, VerticalUp, 1.0)
	}
	d.SetWeight(Index, 2)
	return d
}

// OKGesture describes thumb and index forming a ring with the rest raised.
func OKGesture() *Descriptor {
	d := NewDescriptor(NameOK)
	d.AddCurl(Thumb, HalfCurl, 1.0)
	d.AddCurl(Index, HalfCurl, 1.0)
	for _, f := range []Finger{Middle, Ring, Pinky} {
		d.AddCurl(f, NoCurl, 1.0)
		d.AddDirection(f, VerticalUp, 0.9)
	}
	return d
}

// Builtins returns fresh copies of the built-in gestures in registration order.
func Builtins() []*Descriptor {
	return []*Descriptor{
		VictoryGesture(),
		ThumbsUpGesture(),
		ILYGesture(),
		NamasteGesture(),
		OKGesture(),
	}
}

// DefaultRegistry freezes the built-ins followed by any custom descriptors.
func DefaultRegistry(custom ...*Descriptor) *Registry {
	return NewRegistry(append(Builtins(), custom...)...)
}
