package ecs

import (
	"reflect"
	"unsafe"
)

// MaxComponentTypes defines the maximum number of unique component types that
// can be registered in a World. This value is fixed at 256.
const MaxComponentTypes = 256

// ComponentID identifies a registered component type within one World.
// IDs are assigned in registration order and are only meaningful for the
// World that issued them.
type ComponentID uint8

// componentInfo carries everything the untyped column layer needs to manage
// values of one component type: its size plus the three capability funcs
// built from the concrete type at registration.
type componentInfo struct {
	typ  reflect.Type
	size uintptr
	id   ComponentID

	// zero default-constructs the value at dst.
	zero func(dst unsafe.Pointer)
	// drop destroys the value at obj, releasing anything it references.
	drop func(obj unsafe.Pointer)
	// move transfers the value from src to dst and leaves src destroyed.
	move func(dst, src unsafe.Pointer)
}

// componentRegistry maps component types to IDs, per World.
type componentRegistry struct {
	byType map[reflect.Type]ComponentID
	infos  [MaxComponentTypes]componentInfo
	next   uint16
}

// RegisterComponent registers T with the world and returns its ComponentID.
// Registration is idempotent: calling it again for an already-registered type
// returns the existing ID. It panics once more than MaxComponentTypes
// distinct types have been registered.
func RegisterComponent[T any](w *World) ComponentID {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if id, ok := w.registry.byType[t]; ok {
		return id
	}
	if w.registry.next >= MaxComponentTypes {
		panic("ecs: too many component types")
	}
	id := ComponentID(w.registry.next)
	w.registry.next++
	w.registry.byType[t] = id

	var zeroVal T
	w.registry.infos[id] = componentInfo{
		typ:  t,
		size: t.Size(),
		id:   id,
		zero: func(dst unsafe.Pointer) {
			*(*T)(dst) = zeroVal
		},
		drop: func(obj unsafe.Pointer) {
			// Typed zero write so the GC drops anything the value pointed at.
			*(*T)(obj) = zeroVal
		},
		move: func(dst, src unsafe.Pointer) {
			p := (*T)(src)
			*(*T)(dst) = *p
			*p = zeroVal
		},
	}
	return id
}
