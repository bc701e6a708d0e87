package ecs

// TableID indexes a table within its World.
type TableID uint32

const invalidTable = ^TableID(0)

// colSlot is one bucket of a table's open-addressed column lookup.
type colSlot struct {
	cid ComponentID
	idx int16 // column index, -1 when the slot is empty
}

// table stores every entity sharing one component set. Entities are dense:
// row i of each column belongs to entities[i], and removal swaps the last
// row into the hole so the arrays never have gaps.
type table struct {
	id       TableID
	key      []ComponentID // canonical: sorted, no duplicates
	mask     bitmask256
	entities []Entity
	columns  []column // parallel to key

	lookup   []colSlot // built by finalizeSchema; nil until then
	lookMask uint32
}

// hashCID mixes a component ID for the open-addressed lookup.
func hashCID(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// finalizeSchema builds the open-addressed component-id lookup once the key
// is fixed. Until it runs, columnIndex falls back to binary search over the
// sorted key.
func (t *table) finalizeSchema() {
	n := len(t.key)
	if n == 0 {
		return
	}
	slots := 8
	for slots < n*2 {
		slots *= 2
	}
	t.lookup = make([]colSlot, slots)
	for i := range t.lookup {
		t.lookup[i].idx = -1
	}
	t.lookMask = uint32(slots - 1)
	for i, cid := range t.key {
		h := hashCID(uint32(cid)) & t.lookMask
		for t.lookup[h].idx >= 0 {
			h = (h + 1) & t.lookMask
		}
		t.lookup[h] = colSlot{cid: cid, idx: int16(i)}
	}
}

// columnIndex returns the column holding cid, or -1 if the table's key does
// not include it.
func (t *table) columnIndex(cid ComponentID) int {
	if t.lookup == nil {
		lo, hi := 0, len(t.key)
		for lo < hi {
			mid := (lo + hi) / 2
			if t.key[mid] < cid {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo < len(t.key) && t.key[lo] == cid {
			return lo
		}
		return -1
	}
	h := hashCID(uint32(cid)) & t.lookMask
	for {
		s := t.lookup[h]
		if s.idx < 0 {
			return -1
		}
		if s.cid == cid {
			return int(s.idx)
		}
		h = (h + 1) & t.lookMask
	}
}

// addRow appends a row owned by e with default-constructed components and
// returns its index.
func (t *table) addRow(e Entity) int {
	row := len(t.entities)
	t.entities = append(t.entities, e)
	for i := range t.columns {
		t.columns[i].extend()
	}
	return row
}

// removeRowSwap destroys the row's components and moves the last row into
// its place. It returns the entity that was relocated, if any, so the caller
// can patch that entity's location.
func (t *table) removeRowSwap(row int) (moved Entity, swapped bool) {
	for i := range t.columns {
		t.columns[i].removeSwap(row)
	}
	return t.popEntity(row)
}

// removeRowSwapNoDrop is removeRowSwap for rows whose components have
// already been moved out (migration).
func (t *table) removeRowSwapNoDrop(row int) (moved Entity, swapped bool) {
	for i := range t.columns {
		t.columns[i].removeSwapNoDrop(row)
	}
	return t.popEntity(row)
}

func (t *table) popEntity(row int) (Entity, bool) {
	last := len(t.entities) - 1
	var moved Entity
	swapped := row != last
	if swapped {
		moved = t.entities[last]
		t.entities[row] = moved
	}
	t.entities = t.entities[:last]
	return moved, swapped
}
