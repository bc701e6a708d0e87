package ecs

import "unsafe"

// Block4 is one table's worth of rows from a View4: four parallel component
// slices of equal length. The slices alias table storage directly, so they
// are read/write but become invalid on the next structural change.
type Block4[T1, T2, T3, T4 any] struct {
	C1 []T1
	C2 []T2
	C3 []T3
	C4 []T4
}

// View4 is a memoized scan over every entity holding all four component
// types. Refresh rebuilds the block list only when the world's structural
// version has moved; an unchanged world makes Refresh a version compare and
// nothing else. This is what lets a renderer re-walk a static scene every
// frame without touching table metadata.
type View4[T1, T2, T3, T4 any] struct {
	world   *World
	ids     [4]ComponentID
	include bitmask256

	blocks  []Block4[T1, T2, T3, T4]
	seen    uint64
	rescans uint64
}

// NewView4 creates a view over the four component types, registering any of
// them that are not registered yet.
func NewView4[T1, T2, T3, T4 any](w *World) *View4[T1, T2, T3, T4] {
	v := &View4[T1, T2, T3, T4]{
		world: w,
		ids: [4]ComponentID{
			RegisterComponent[T1](w),
			RegisterComponent[T2](w),
			RegisterComponent[T3](w),
			RegisterComponent[T4](w),
		},
		seen: ^uint64(0),
	}
	for _, id := range v.ids {
		v.include.set(uint8(id))
	}
	return v
}

// Refresh brings the block list up to date with the world. It is a no-op
// while the world version is unchanged.
func (v *View4[T1, T2, T3, T4]) Refresh() {
	ver := v.world.version
	if ver == v.seen {
		return
	}
	v.blocks = v.blocks[:0]
	for _, t := range v.world.tables {
		n := len(t.entities)
		if n == 0 || !t.mask.contains(v.include) {
			continue
		}
		v.blocks = append(v.blocks, Block4[T1, T2, T3, T4]{
			C1: colSlice[T1](t, v.ids[0], n),
			C2: colSlice[T2](t, v.ids[1], n),
			C3: colSlice[T3](t, v.ids[2], n),
			C4: colSlice[T4](t, v.ids[3], n),
		})
	}
	v.seen = ver
	v.rescans++
}

// Blocks returns the current block list. Call Refresh first.
func (v *View4[T1, T2, T3, T4]) Blocks() []Block4[T1, T2, T3, T4] {
	return v.blocks
}

// Rescans returns how many times Refresh actually rebuilt the block list.
func (v *View4[T1, T2, T3, T4]) Rescans() uint64 {
	return v.rescans
}

func colSlice[T any](t *table, cid ComponentID, n int) []T {
	c := &t.columns[t.columnIndex(cid)]
	return unsafe.Slice((*T)(c.data), n)
}
