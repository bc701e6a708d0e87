// Package fmath provides the float32 vector, matrix and colour math used by
// the software rasterization pipeline. Matrices are row-major and multiply
// column vectors; the projection maps into a D3D-style clip volume where z
// runs from 0 at the near plane to w at the far plane.
package fmath

import "math"

// Vec4 is a 4-component float32 vector. Positions carry W=1, directions W=0.
type Vec4 struct {
	X, Y, Z, W float32
}

// Add returns v + o component-wise (including W).
func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}

// Sub returns v - o component-wise (including W).
func (v Vec4) Sub(o Vec4) Vec4 {
	return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W}
}

// Scale returns v with X, Y, Z multiplied by s. W is untouched.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W}
}

// Dot3 returns the dot product of the XYZ parts.
func (v Vec4) Dot3(o Vec4) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross3 returns the cross product of the XYZ parts, with W=0.
func (v Vec4) Cross3(o Vec4) Vec4 {
	return Vec4{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Len3 returns the length of the XYZ part.
func (v Vec4) Len3() float32 {
	return Sqrt(v.Dot3(v))
}

// Normalize3 returns v with unit-length XYZ. The zero vector normalizes to
// itself.
func (v Vec4) Normalize3() Vec4 {
	l := v.Len3()
	if l == 0 {
		return v
	}
	inv := 1 / l
	return Vec4{v.X * inv, v.Y * inv, v.Z * inv, v.W}
}

// Sqrt is float32 square root.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Sin is float32 sine.
func Sin(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

// Cos is float32 cosine.
func Cos(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

// Tan is float32 tangent.
func Tan(x float32) float32 {
	return float32(math.Tan(float64(x)))
}

// Floor is float32 floor.
func Floor(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

// Ceil is float32 ceiling.
func Ceil(x float32) float32 {
	return float32(math.Ceil(float64(x)))
}

// Pow is float32 exponentiation.
func Pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// Abs is float32 absolute value.
func Abs(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Fract returns the fractional part of x.
func Fract(x float32) float32 {
	return x - Floor(x)
}
