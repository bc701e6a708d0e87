package render

import "github.com/softrast/softrast/fmath"

// MeshRef points an entity at shared mesh data. The slices alias a MeshAsset
// and are never owned by the entity, so many instances can share one asset.
// Vertices are flattened per triangle: TriCount*3 positions and normals, and
// when HasUVs is set, two floats per vertex.
type MeshRef struct {
	Positions []fmath.Vec4
	Normals   []fmath.Vec4
	UVs       []float32
	TriCount  uint32
	HasUVs    bool
}

// Transform carries an entity's object-to-world matrix.
type Transform struct {
	World fmath.Mat4
}

// Material is the flat-shading input: base colour plus ambient and diffuse
// coefficients.
type Material struct {
	Col fmath.Colour
	Ka  float32
	Kd  float32
}

// TextureRef points an entity at cached CPU texture data. Pixels are RGBA8
// packed little-endian (byte order r, g, b, a). The zero value means
// untextured.
type TextureRef struct {
	Pixels []uint32
	W      uint32
	H      uint32
}

// Valid reports whether the reference addresses usable texture data.
func (t *TextureRef) Valid() bool {
	return len(t.Pixels) > 0 && t.W > 0 && t.H > 0
}

// SampleNearest returns the texel nearest to (u, v) with wrap-around
// addressing on both axes.
func (t *TextureRef) SampleNearest(u, v float32) uint32 {
	u = u - fmath.Floor(u)
	v = v - fmath.Floor(v)
	if u < 0 {
		u++
	}
	if v < 0 {
		v++
	}
	tx := uint32(u*float32(t.W)) % t.W
	ty := uint32(v*float32(t.H)) % t.H
	return t.Pixels[ty*t.W+tx]
}
