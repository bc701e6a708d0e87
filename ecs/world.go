package ecs

import "reflect"

// Entity represents a unique identifier for an object in the World. It
// combines a 32-bit ID with a 32-bit generation to ensure that recycled IDs
// are not confused with new entities.
type Entity struct {
	// ID is the unique, recyclable identifier for the entity.
	ID uint32
	// Version is a generation counter to protect against stale entity
	// references. It is incremented each time an entity is destroyed, so a
	// handle to a recycled slot always carries a strictly greater generation
	// than any handle to the previous occupant.
	Version uint32
}

// location records where an entity's row currently lives.
type location struct {
	table TableID
	row   uint32
}

// emptyTableID is the table for entities with no components yet; it is
// created first, so it is always table 0.
const emptyTableID = TableID(0)

// World is the entity store. It owns the component registry, the tables, and
// the per-entity generation and location arrays.
//
// A World is not safe for concurrent structural mutation. Concurrent readers
// are fine as long as nothing mutates, which is the contract the renderer
// relies on while worker goroutines walk view blocks.
type World struct {
	registry    componentRegistry
	tables      []*table
	maskToTable map[bitmask256]TableID

	generations []uint32 // indexed by entity ID; starts at 1
	locations   []location
	freeIDs     []uint32
	alive       uint32

	version uint64 // bumped on every structural change
}

// NewWorld creates an empty World. The no-component table is pre-created so
// freshly spawned entities always have a row.
func NewWorld() *World {
	w := &World{
		registry:    componentRegistry{byType: make(map[reflect.Type]ComponentID, 16)},
		maskToTable: make(map[bitmask256]TableID),
	}
	var empty bitmask256
	w.getOrCreateTable(empty, nil)
	return w
}

// Version returns the world's structural version. It increments whenever a
// table is created, an entity is created or destroyed, or a component is
// added or removed. Caches keyed on it stay valid exactly as long as it does
// not change.
func (w *World) Version() uint64 {
	return w.version
}

// AliveCount returns the number of live entities.
func (w *World) AliveCount() int {
	return int(w.alive)
}

// TableCount returns the number of tables, including the empty table.
func (w *World) TableCount() int {
	return len(w.tables)
}

// Alive reports whether e refers to a live entity. A handle is live only
// while the stored generation for its slot still matches.
func (w *World) Alive(e Entity) bool {
	if int(e.ID) >= len(w.generations) {
		return false
	}
	return w.generations[e.ID] == e.Version && w.locations[e.ID].table != invalidTable
}

// Location returns the table and row currently holding e. ok is false for
// stale or never-issued handles.
func (w *World) Location(e Entity) (table TableID, row int, ok bool) {
	if !w.Alive(e) {
		return 0, 0, false
	}
	loc := w.locations[e.ID]
	return loc.table, int(loc.row), true
}

// CreateEntity spawns a new entity with no components and returns its handle.
// Slot IDs are recycled from destroyed entities when available.
func (w *World) CreateEntity() Entity {
	var id uint32
	if n := len(w.freeIDs); n > 0 {
		id = w.freeIDs[n-1]
		w.freeIDs = w.freeIDs[:n-1]
	} else {
		id = uint32(len(w.generations))
		w.generations = append(w.generations, 1)
		w.locations = append(w.locations, location{table: invalidTable})
	}
	e := Entity{ID: id, Version: w.generations[id]}
	row := w.tables[emptyTableID].addRow(e)
	w.locations[id] = location{table: emptyTableID, row: uint32(row)}
	w.alive++
	w.version++
	return e
}

// DestroyEntity removes e from the world, destroying its components and
// recycling its slot. Destroying a stale handle is a no-op.
func (w *World) DestroyEntity(e Entity) {
	if !w.Alive(e) {
		return
	}
	loc := w.locations[e.ID]
	t := w.tables[loc.table]
	if moved, ok := t.removeRowSwap(int(loc.row)); ok {
		w.locations[moved.ID].row = loc.row
	}
	w.locations[e.ID] = location{table: invalidTable}
	w.generations[e.ID]++
	w.freeIDs = append(w.freeIDs, e.ID)
	w.alive--
	w.version++
}

// getOrCreateTable returns the table for mask, creating it (with the given
// canonical key) if it does not exist yet.
func (w *World) getOrCreateTable(mask bitmask256, key []ComponentID) *table {
	if id, ok := w.maskToTable[mask]; ok {
		return w.tables[id]
	}
	t := &table{
		id:   TableID(len(w.tables)),
		key:  key,
		mask: mask,
	}
	t.columns = make([]column, len(key))
	for i, cid := range key {
		t.columns[i].info = &w.registry.infos[cid]
	}
	t.finalizeSchema()
	w.tables = append(w.tables, t)
	w.maskToTable[mask] = t.id
	w.version++
	return t
}

// tableWith returns src's table extended by cid.
func (w *World) tableWith(src *table, cid ComponentID) *table {
	mask := src.mask
	mask.set(uint8(cid))
	if id, ok := w.maskToTable[mask]; ok {
		return w.tables[id]
	}
	key := make([]ComponentID, 0, len(src.key)+1)
	inserted := false
	for _, k := range src.key {
		if !inserted && cid < k {
			key = append(key, cid)
			inserted = true
		}
		key = append(key, k)
	}
	if !inserted {
		key = append(key, cid)
	}
	return w.getOrCreateTable(mask, key)
}

// tableWithout returns src's table with cid removed.
func (w *World) tableWithout(src *table, cid ComponentID) *table {
	mask := src.mask
	mask.unset(uint8(cid))
	if id, ok := w.maskToTable[mask]; ok {
		return w.tables[id]
	}
	key := make([]ComponentID, 0, len(src.key)-1)
	for _, k := range src.key {
		if k != cid {
			key = append(key, k)
		}
	}
	return w.getOrCreateTable(mask, key)
}

// migrate moves e from its current table into dst. Components shared by both
// tables are moved over, the rest are destroyed, and the displaced entity in
// the source table (if any) gets its location patched before the version
// bump completes.
func (w *World) migrate(e Entity, dst *table) int {
	loc := w.locations[e.ID]
	src := w.tables[loc.table]
	row := int(loc.row)

	newRow := dst.addRow(e)
	for i := range src.columns {
		c := &src.columns[i]
		if j := dst.columnIndex(c.info.id); j >= 0 {
			c.info.move(dst.columns[j].ptr(newRow), c.ptr(row))
		} else {
			c.info.drop(c.ptr(row))
		}
	}
	if moved, ok := src.removeRowSwapNoDrop(row); ok {
		w.locations[moved.ID].row = loc.row
	}
	w.locations[e.ID] = location{table: dst.id, row: uint32(newRow)}
	w.version++
	return newRow
}
