package ecs

// Generic component operations. These are free functions because Go methods
// cannot introduce type parameters. All of them absorb stale handles: adds
// and sets become no-ops, gets return nil.

// AddComponent attaches a default-valued T to e, migrating it to the table
// whose key includes T. If e already has T, the existing value is returned
// untouched. The returned pointer is valid until the next structural change.
func AddComponent[T any](w *World, e Entity) *T {
	cid := RegisterComponent[T](w)
	if !w.Alive(e) {
		return nil
	}
	loc := w.locations[e.ID]
	src := w.tables[loc.table]
	if ci := src.columnIndex(cid); ci >= 0 {
		return (*T)(src.columns[ci].ptr(int(loc.row)))
	}
	dst := w.tableWith(src, cid)
	row := w.migrate(e, dst)
	return (*T)(dst.columns[dst.columnIndex(cid)].ptr(row))
}

// SetComponent assigns value to e's T component, adding the component first
// if e does not have it yet.
func SetComponent[T any](w *World, e Entity, value T) {
	if p := AddComponent[T](w, e); p != nil {
		*p = value
	}
}

// RemoveComponent detaches T from e, destroying the stored value. Removing a
// component the entity does not have, or from a stale handle, is a no-op.
func RemoveComponent[T any](w *World, e Entity) {
	cid := RegisterComponent[T](w)
	if !w.Alive(e) {
		return
	}
	loc := w.locations[e.ID]
	src := w.tables[loc.table]
	if src.columnIndex(cid) < 0 {
		return
	}
	w.migrate(e, w.tableWithout(src, cid))
}

// GetComponent returns a pointer to e's T component, or nil if e is stale or
// does not have T. The pointer is valid until the next structural change.
func GetComponent[T any](w *World, e Entity) *T {
	cid := RegisterComponent[T](w)
	if !w.Alive(e) {
		return nil
	}
	loc := w.locations[e.ID]
	t := w.tables[loc.table]
	ci := t.columnIndex(cid)
	if ci < 0 {
		return nil
	}
	return (*T)(t.columns[ci].ptr(int(loc.row)))
}

// HasComponent reports whether e currently has a T component.
func HasComponent[T any](w *World, e Entity) bool {
	cid := RegisterComponent[T](w)
	if !w.Alive(e) {
		return false
	}
	return w.tables[w.locations[e.ID].table].mask.containsBit(uint8(cid))
}
