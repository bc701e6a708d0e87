package ecs

// bitmask256 represents a set of up to 256 component IDs. It identifies a
// table's component set: each bit corresponds to one component ID. The mask
// doubles as the map key for structural lookup, so two tables are the same
// archetype exactly when their masks are equal.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given component ID.
func (m *bitmask256) set(bit uint8) {
	m[bit>>6] |= 1 << (bit & 63)
}

// unset disables the bit corresponding to the given component ID.
func (m *bitmask256) unset(bit uint8) {
	m[bit>>6] &^= 1 << (bit & 63)
}

// contains checks if all the bits set in sub are also set in the receiver.
// This is how a filter decides whether a table's component set is a superset
// of its required components.
func (m bitmask256) contains(sub bitmask256) bool {
	for i, word := range sub {
		if m[i]&word != word {
			return false
		}
	}
	return true
}

// containsBit checks if a specific bit is set in the mask.
func (m bitmask256) containsBit(bit uint8) bool {
	return m[bit>>6]&(1<<(bit&63)) != 0
}
