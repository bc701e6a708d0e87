package render

import (
	"github.com/softrast/softrast/ecs"
	"github.com/softrast/softrast/fmath"
)

// Vertex is one corner of an indexed mesh.
type Vertex struct {
	P fmath.Vec4
	N fmath.Vec4
}

// Mesh is an indexed triangle mesh, the interchange form assets are built
// from.
type Mesh struct {
	Vertices  []Vertex
	Triangles [][3]uint32
}

// MeshAsset owns flattened per-triangle vertex data ready for the pipeline:
// TriCount*3 positions (w=1) and normals (w=0), plus optional UVs at two
// floats per vertex.
type MeshAsset struct {
	Positions []fmath.Vec4
	Normals   []fmath.Vec4
	UVs       []float32
	TriCount  uint32
	HasUVs    bool
}

// Ref returns a component referencing this asset's data.
func (a *MeshAsset) Ref() MeshRef {
	return MeshRef{
		Positions: a.Positions,
		Normals:   a.Normals,
		UVs:       a.UVs,
		TriCount:  a.TriCount,
		HasUVs:    a.HasUVs,
	}
}

// SetTriangleUVs assigns the six UV floats (u0,v0,u1,v1,u2,v2) of one
// triangle. The asset must have been built with UVs.
func (a *MeshAsset) SetTriangleUVs(tri int, uv [6]float32) {
	copy(a.UVs[tri*6:tri*6+6], uv[:])
}

// BuildAsset flattens an indexed mesh into per-triangle arrays. Position w
// is forced to 1 and normal w to 0 so the transform stage can treat them
// uniformly. When withUVs is set the UV array is allocated zeroed.
func BuildAsset(m *Mesh, withUVs bool) MeshAsset {
	triCount := uint32(len(m.Triangles))
	verts := int(triCount) * 3
	a := MeshAsset{
		Positions: make([]fmath.Vec4, verts),
		Normals:   make([]fmath.Vec4, verts),
		TriCount:  triCount,
		HasUVs:    withUVs,
	}
	if withUVs {
		a.UVs = make([]float32, verts*2)
	}
	for t, ind := range m.Triangles {
		for k := 0; k < 3; k++ {
			v := m.Vertices[ind[k]]
			v.P.W = 1
			v.N.W = 0
			a.Positions[t*3+k] = v.P
			a.Normals[t*3+k] = v.N
		}
	}
	return a
}

// MakeCube builds an axis-aligned cube of the given edge length centred on
// the origin, with face normals (24 vertices, 12 triangles).
func MakeCube(size float32) Mesh {
	h := size * 0.5
	faces := [6]struct {
		n fmath.Vec4    // face normal
		c [4]fmath.Vec4 // corners, counter-clockwise seen from outside
	}{
		{fmath.Vec4{Z: -1}, [4]fmath.Vec4{{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h}}},
		{fmath.Vec4{Z: 1}, [4]fmath.Vec4{{X: h, Y: -h, Z: h}, {X: -h, Y: -h, Z: h}, {X: -h, Y: h, Z: h}, {X: h, Y: h, Z: h}}},
		{fmath.Vec4{X: -1}, [4]fmath.Vec4{{X: -h, Y: -h, Z: h}, {X: -h, Y: -h, Z: -h}, {X: -h, Y: h, Z: -h}, {X: -h, Y: h, Z: h}}},
		{fmath.Vec4{X: 1}, [4]fmath.Vec4{{X: h, Y: -h, Z: -h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: h, Y: h, Z: -h}}},
		{fmath.Vec4{Y: -1}, [4]fmath.Vec4{{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: -h, Z: -h}, {X: -h, Y: -h, Z: -h}}},
		{fmath.Vec4{Y: 1}, [4]fmath.Vec4{{X: -h, Y: h, Z: -h}, {X: h, Y: h, Z: -h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h}}},
	}

	var m Mesh
	m.Vertices = make([]Vertex, 0, 24)
	m.Triangles = make([][3]uint32, 0, 12)
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, c := range f.c {
			c.W = 1
			m.Vertices = append(m.Vertices, Vertex{P: c, N: f.n})
		}
		m.Triangles = append(m.Triangles,
			[3]uint32{base, base + 1, base + 2},
			[3]uint32{base, base + 2, base + 3})
	}
	return m
}

// MakeCubeAsset builds a ready-to-draw cube asset. When withUVs is set each
// face maps the full [0,1] texture quad.
func MakeCubeAsset(size float32, withUVs bool) MeshAsset {
	m := MakeCube(size)
	a := BuildAsset(&m, withUVs)
	if withUVs {
		for f := 0; f < 6; f++ {
			a.SetTriangleUVs(f*2+0, [6]float32{0, 0, 1, 0, 1, 1})
			a.SetTriangleUVs(f*2+1, [6]float32{0, 0, 1, 1, 0, 1})
		}
	}
	return a
}

// SpawnInstance creates an entity carrying the four draw components: a mesh
// reference onto asset, a world transform, a flat material and an optional
// texture (pass the zero TextureRef for untextured).
func SpawnInstance(w *ecs.World, asset *MeshAsset, world fmath.Mat4, col fmath.Colour, ka, kd float32, tex TextureRef) ecs.Entity {
	e := w.CreateEntity()
	ecs.SetComponent(w, e, asset.Ref())
	ecs.SetComponent(w, e, Transform{World: world})
	ecs.SetComponent(w, e, Material{Col: col, Ka: ka, Kd: kd})
	ecs.SetComponent(w, e, tex)
	return e
}
