package fmath

// Colour is a linear RGB triple in [0, 1] (values outside the range are
// clamped only at pack time).
type Colour struct {
	R, G, B float32
}

// Scale returns c with every channel multiplied by s.
func (c Colour) Scale(s float32) Colour {
	return Colour{c.R * s, c.G * s, c.B * s}
}

// Clamp01 limits every channel to [0, 1].
func (c Colour) Clamp01() Colour {
	return Colour{Clamp(c.R, 0, 1), Clamp(c.G, 0, 1), Clamp(c.B, 0, 1)}
}
