// Package ecs implements an archetype-based entity store. Entities carrying
// the same component set share a table whose component data is stored in
// dense per-component columns, so systems iterate contiguous memory. Handles
// are generation-versioned, which makes stale references detectable after an
// entity slot has been recycled.
//
// Structural changes (creating or destroying entities, adding or removing
// components, creating tables) bump a world version counter. Filters and
// views memoize their table scans on that counter, so repeated iteration of
// an unchanged world costs nothing beyond the version compare.
package ecs
