package ecs

import (
	"reflect"
	"unsafe"
)

// columnSeedCap is the capacity a column starts with on its first growth.
const columnSeedCap = 8

// column is a growable, untyped buffer holding one component type for every
// row of a table. Storage is allocated through reflect.MakeSlice and the
// resulting reflect.Value is retained, so the backing array stays visible to
// the garbage collector while hot paths address it through raw pointers.
type column struct {
	info *componentInfo
	ref  reflect.Value // pins the backing array
	data unsafe.Pointer
	len  int
	cap  int
}

func (c *column) ptr(row int) unsafe.Pointer {
	return unsafe.Add(c.data, uintptr(row)*c.info.size)
}

// grow relocates the column to a buffer of at least need elements, doubling
// geometrically from columnSeedCap. Existing rows are carried over with the
// registered move op so the old buffer ends up fully destroyed.
func (c *column) grow(need int) {
	newCap := c.cap
	if newCap == 0 {
		newCap = columnSeedCap
	}
	for newCap < need {
		newCap *= 2
	}
	s := reflect.MakeSlice(reflect.SliceOf(c.info.typ), newCap, newCap)
	base := s.UnsafePointer()
	for i := 0; i < c.len; i++ {
		c.info.move(unsafe.Add(base, uintptr(i)*c.info.size), c.ptr(i))
	}
	c.ref = s
	c.data = base
	c.cap = newCap
}

// extend appends one default-constructed row and returns its index.
func (c *column) extend() int {
	if c.len == c.cap {
		c.grow(c.len + 1)
	}
	row := c.len
	c.len++
	c.info.zero(c.ptr(row))
	return row
}

// removeSwap destroys row and fills the hole with the last row.
func (c *column) removeSwap(row int) {
	last := c.len - 1
	c.info.drop(c.ptr(row))
	if row != last {
		c.info.move(c.ptr(row), c.ptr(last))
	}
	c.len = last
}

// removeSwapNoDrop fills row with the last row without destroying it first.
// Only valid when the caller has already moved the row's value out.
func (c *column) removeSwapNoDrop(row int) {
	last := c.len - 1
	if row != last {
		c.info.move(c.ptr(row), c.ptr(last))
	}
	c.len = last
}
