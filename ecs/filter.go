package ecs

import "unsafe"

// Filter iterates every entity holding a T component. The set of matching
// tables is cached and re-scanned only when the world version has moved
// since the last Reset.
//
// Structural changes invalidate the iterator; call Reset before reuse and do
// not mutate the world mid-iteration.
type Filter[T any] struct {
	world   *World
	cid     ComponentID
	include bitmask256

	tables []*table
	seen   uint64

	cur  *table
	base unsafe.Pointer
	size uintptr
	tix  int
	row  int
}

// NewFilter creates a filter over T, registering the component if needed.
// The filter starts reset.
func NewFilter[T any](w *World) *Filter[T] {
	f := &Filter[T]{
		world: w,
		cid:   RegisterComponent[T](w),
		seen:  ^uint64(0),
	}
	f.size = w.registry.infos[f.cid].size
	f.include.set(uint8(f.cid))
	f.Reset()
	return f
}

// Reset rewinds the filter. The matching-table list is rebuilt only if the
// world changed structurally since the previous scan.
func (f *Filter[T]) Reset() {
	if v := f.world.version; v != f.seen {
		f.tables = f.tables[:0]
		for _, t := range f.world.tables {
			if len(t.entities) > 0 && t.mask.contains(f.include) {
				f.tables = append(f.tables, t)
			}
		}
		f.seen = v
	}
	f.cur = nil
	f.tix = -1
	f.row = -1
}

// Next advances to the next matching entity, returning false when the
// iteration is exhausted.
func (f *Filter[T]) Next() bool {
	f.row++
	for f.cur == nil || f.row >= len(f.cur.entities) {
		f.tix++
		if f.tix >= len(f.tables) {
			return false
		}
		f.cur = f.tables[f.tix]
		f.base = f.cur.columns[f.cur.columnIndex(f.cid)].data
		f.row = 0
	}
	return true
}

// Get returns the current entity's T component.
func (f *Filter[T]) Get() *T {
	return (*T)(unsafe.Add(f.base, uintptr(f.row)*f.size))
}

// Entity returns the current entity's handle.
func (f *Filter[T]) Entity() Entity {
	return f.cur.entities[f.row]
}

// Filter2 iterates every entity holding both T1 and T2.
type Filter2[T1, T2 any] struct {
	world   *World
	cid1    ComponentID
	cid2    ComponentID
	include bitmask256

	tables []*table
	seen   uint64

	cur   *table
	base1 unsafe.Pointer
	base2 unsafe.Pointer
	size1 uintptr
	size2 uintptr
	tix   int
	row   int
}

// NewFilter2 creates a filter over the (T1, T2) pair.
func NewFilter2[T1, T2 any](w *World) *Filter2[T1, T2] {
	f := &Filter2[T1, T2]{
		world: w,
		cid1:  RegisterComponent[T1](w),
		cid2:  RegisterComponent[T2](w),
		seen:  ^uint64(0),
	}
	f.size1 = w.registry.infos[f.cid1].size
	f.size2 = w.registry.infos[f.cid2].size
	f.include.set(uint8(f.cid1))
	f.include.set(uint8(f.cid2))
	f.Reset()
	return f
}

// Reset rewinds the filter, re-scanning tables only after structural change.
func (f *Filter2[T1, T2]) Reset() {
	if v := f.world.version; v != f.seen {
		f.tables = f.tables[:0]
		for _, t := range f.world.tables {
			if len(t.entities) > 0 && t.mask.contains(f.include) {
				f.tables = append(f.tables, t)
			}
		}
		f.seen = v
	}
	f.cur = nil
	f.tix = -1
	f.row = -1
}

// Next advances to the next matching entity.
func (f *Filter2[T1, T2]) Next() bool {
	f.row++
	for f.cur == nil || f.row >= len(f.cur.entities) {
		f.tix++
		if f.tix >= len(f.tables) {
			return false
		}
		f.cur = f.tables[f.tix]
		f.base1 = f.cur.columns[f.cur.columnIndex(f.cid1)].data
		f.base2 = f.cur.columns[f.cur.columnIndex(f.cid2)].data
		f.row = 0
	}
	return true
}

// Get returns the current entity's T1 and T2 components.
func (f *Filter2[T1, T2]) Get() (*T1, *T2) {
	return (*T1)(unsafe.Add(f.base1, uintptr(f.row)*f.size1)),
		(*T2)(unsafe.Add(f.base2, uintptr(f.row)*f.size2))
}

// Entity returns the current entity's handle.
func (f *Filter2[T1, T2]) Entity() Entity {
	return f.cur.entities[f.row]
}
