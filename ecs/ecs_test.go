package ecs_test

import (
	"testing"

	"github.com/softrast/softrast/ecs"
)

// --- Test Components ---
type Position struct{ X, Y float32 }
type Velocity struct{ VX, VY float32 }
type Health struct{ Current, Max int }
type Tag struct{}

func setupWorld(_ *testing.T) *ecs.World {
	w := ecs.NewWorld()
	ecs.RegisterComponent[Position](w)
	ecs.RegisterComponent[Velocity](w)
	ecs.RegisterComponent[Health](w)
	ecs.RegisterComponent[Tag](w)
	return w
}

// go test -run ^TestCreateEntity$ . -count 1
func TestCreateEntity(t *testing.T) {
	world := setupWorld(t)
	e1 := world.CreateEntity()
	e2 := world.CreateEntity()

	if e1.ID != 0 {
		t.Errorf("Expected first entity ID to be 0, got %d", e1.ID)
	}
	if e1.Version != 1 {
		t.Errorf("Expected first entity version to be 1, got %d", e1.Version)
	}
	if e2.ID != 1 {
		t.Errorf("Expected second entity ID to be 1, got %d", e2.ID)
	}
	if world.AliveCount() != 2 {
		t.Errorf("Expected 2 alive entities, got %d", world.AliveCount())
	}
}

// go test -run ^TestRegisterComponentIdempotent$ . -count 1
func TestRegisterComponentIdempotent(t *testing.T) {
	world := ecs.NewWorld()
	id1 := ecs.RegisterComponent[Position](world)
	id2 := ecs.RegisterComponent[Position](world)
	if id1 != id2 {
		t.Errorf("Re-registration returned a different ID: %d vs %d", id1, id2)
	}
}

// go test -run ^TestAddComponent$ . -count 1
func TestAddComponent(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()

	p := ecs.AddComponent[Position](world, e)
	if p == nil {
		t.Fatal("AddComponent returned a nil pointer")
	}
	if p.X != 0 || p.Y != 0 {
		t.Errorf("New component should be default-valued, got %+v", p)
	}

	p.X = 10
	p.Y = 20

	retrieved := ecs.GetComponent[Position](world, e)
	if retrieved == nil {
		t.Fatal("GetComponent failed to find the component")
	}
	if retrieved.X != 10 || retrieved.Y != 20 {
		t.Errorf("Component data is incorrect after adding. Got %+v", retrieved)
	}

	// Adding again returns the existing value untouched.
	again := ecs.AddComponent[Position](world, e)
	if again.X != 10 || again.Y != 20 {
		t.Errorf("Second AddComponent should keep the existing value, got %+v", again)
	}
}

// go test -run ^TestSetComponent$ . -count 1
func TestSetComponent(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()

	t.Run("AddNewComponent", func(t *testing.T) {
		ecs.SetComponent(world, e, Position{X: 100, Y: 200})

		p := ecs.GetComponent[Position](world, e)
		if p == nil {
			t.Fatal("GetComponent failed after SetComponent added a component")
		}
		if p.X != 100 || p.Y != 200 {
			t.Errorf("Component data incorrect after SetComponent add. Expected {100, 200}, got %+v", p)
		}
	})

	t.Run("UpdateExistingComponent", func(t *testing.T) {
		// Add a velocity component to ensure it's not affected by the update.
		ecs.SetComponent(world, e, Velocity{VX: 1, VY: 2})

		ecs.SetComponent(world, e, Position{X: 555, Y: 777})

		p := ecs.GetComponent[Position](world, e)
		if p == nil {
			t.Fatal("GetComponent failed after SetComponent updated a component")
		}
		if p.X != 555 || p.Y != 777 {
			t.Errorf("Component data incorrect after SetComponent update. Expected {555, 777}, got %+v", p)
		}

		// Verify other components are untouched
		v := ecs.GetComponent[Velocity](world, e)
		if v == nil {
			t.Fatal("Velocity component was lost after updating Position")
		}
		if v.VX != 1 || v.VY != 2 {
			t.Errorf("Velocity component data was corrupted. Got %+v", v)
		}
	})
}

// go test -run ^TestRemoveComponent$ . -count 1
func TestRemoveComponent(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	ecs.SetComponent(world, e, Position{X: 3, Y: 4})
	ecs.SetComponent(world, e, Velocity{VX: 5, VY: 6})

	ecs.RemoveComponent[Position](world, e)

	if ecs.GetComponent[Position](world, e) != nil {
		t.Fatal("Component was not actually removed")
	}
	if ecs.HasComponent[Position](world, e) {
		t.Fatal("HasComponent still reports the removed component")
	}

	v := ecs.GetComponent[Velocity](world, e)
	if v == nil {
		t.Fatal("Remaining component was lost during migration")
	}
	if v.VX != 5 || v.VY != 6 {
		t.Errorf("Remaining component data was corrupted during migration. Got %+v", v)
	}

	// Removing again is a no-op.
	ecs.RemoveComponent[Position](world, e)
	if !world.Alive(e) {
		t.Fatal("Entity died from a redundant RemoveComponent")
	}
}

// go test -run ^TestDestroyEntity$ . -count 1
func TestDestroyEntity(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	ecs.SetComponent(world, e, Position{X: 1, Y: 2})

	world.DestroyEntity(e)

	if world.Alive(e) {
		t.Fatal("Entity still alive after destroy")
	}
	if ecs.GetComponent[Position](world, e) != nil {
		t.Fatal("GetComponent returned data for a destroyed entity")
	}
	if world.AliveCount() != 0 {
		t.Errorf("Expected 0 alive entities, got %d", world.AliveCount())
	}

	// Destroying a stale handle must be a no-op.
	world.DestroyEntity(e)
	if world.AliveCount() != 0 {
		t.Errorf("Redundant destroy changed the alive count to %d", world.AliveCount())
	}
}

// go test -run ^TestEntityRecycling$ . -count 1
func TestEntityRecycling(t *testing.T) {
	world := setupWorld(t)
	e1 := world.CreateEntity()
	world.DestroyEntity(e1)

	e2 := world.CreateEntity()
	if e2.ID != e1.ID {
		t.Errorf("Expected the recycled slot %d, got %d", e1.ID, e2.ID)
	}
	if e2.Version <= e1.Version {
		t.Errorf("Recycled generation must be strictly greater: old %d, new %d", e1.Version, e2.Version)
	}
	if world.Alive(e1) {
		t.Fatal("Stale handle reports alive after its slot was recycled")
	}
	if !world.Alive(e2) {
		t.Fatal("Fresh handle on recycled slot reports dead")
	}

	// Operations through the stale handle must not touch the new entity.
	ecs.SetComponent(world, e2, Health{Current: 50, Max: 100})
	ecs.SetComponent(world, e1, Health{Current: 999, Max: 999})
	h := ecs.GetComponent[Health](world, e2)
	if h == nil || h.Current != 50 {
		t.Errorf("Stale-handle write leaked into the live entity: %+v", h)
	}
}

// go test -run ^TestSwapRemoveLocationFixup$ . -count 1
func TestSwapRemoveLocationFixup(t *testing.T) {
	world := setupWorld(t)

	entities := make([]ecs.Entity, 4)
	for i := range entities {
		e := world.CreateEntity()
		ecs.SetComponent(world, e, Position{X: float32(i), Y: float32(i * 10)})
		entities[i] = e
	}

	// Destroying the first row swaps the last one into its place.
	world.DestroyEntity(entities[0])

	for i := 1; i < 4; i++ {
		p := ecs.GetComponent[Position](world, entities[i])
		if p == nil {
			t.Fatalf("Entity %d lost its component after an unrelated destroy", i)
		}
		if p.X != float32(i) || p.Y != float32(i*10) {
			t.Errorf("Entity %d data corrupted after swap removal: %+v", i, p)
		}
	}
}

// go test -run ^TestLocation$ . -count 1
func TestLocation(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()

	tab0, _, ok := world.Location(e)
	if !ok {
		t.Fatal("Location failed for a live entity")
	}

	ecs.SetComponent(world, e, Position{})
	tab1, _, ok := world.Location(e)
	if !ok {
		t.Fatal("Location failed after component add")
	}
	if tab1 == tab0 {
		t.Error("Adding a component did not migrate the entity to another table")
	}

	world.DestroyEntity(e)
	if _, _, ok := world.Location(e); ok {
		t.Error("Location succeeded for a destroyed entity")
	}
}

// go test -run ^TestVersionBumps$ . -count 1
func TestVersionBumps(t *testing.T) {
	world := setupWorld(t)

	v0 := world.Version()
	e := world.CreateEntity()
	if world.Version() == v0 {
		t.Error("CreateEntity did not bump the version")
	}

	v1 := world.Version()
	ecs.AddComponent[Position](world, e)
	if world.Version() == v1 {
		t.Error("AddComponent did not bump the version")
	}

	v2 := world.Version()
	ecs.RemoveComponent[Position](world, e)
	if world.Version() == v2 {
		t.Error("RemoveComponent did not bump the version")
	}

	v3 := world.Version()
	world.DestroyEntity(e)
	if world.Version() == v3 {
		t.Error("DestroyEntity did not bump the version")
	}

	// Non-structural access keeps the version still.
	e2 := world.CreateEntity()
	ecs.SetComponent(world, e2, Position{X: 1})
	v5 := world.Version()
	p := ecs.GetComponent[Position](world, e2)
	p.X = 2
	ecs.SetComponent(world, e2, Position{X: 3}) // overwrite, no migration
	if world.Version() != v5 {
		t.Error("Value writes bumped the version")
	}
}

// go test -run ^TestFilter$ . -count 1
func TestFilter(t *testing.T) {
	world := setupWorld(t)

	for i := 0; i < 5; i++ {
		e := world.CreateEntity()
		ecs.SetComponent(world, e, Position{X: float32(i)})
		if i%2 == 0 {
			ecs.SetComponent(world, e, Velocity{VX: 1})
		}
	}

	filter := ecs.NewFilter[Position](world)
	count := 0
	sum := float32(0)
	filter.Reset()
	for filter.Next() {
		sum += filter.Get().X
		count++
	}
	if count != 5 {
		t.Errorf("Expected 5 entities with Position, got %d", count)
	}
	if sum != 0+1+2+3+4 {
		t.Errorf("Unexpected component sum %v", sum)
	}

	pair := ecs.NewFilter2[Position, Velocity](world)
	count = 0
	pair.Reset()
	for pair.Next() {
		p, v := pair.Get()
		p.Y += v.VX
		count++
	}
	if count != 3 {
		t.Errorf("Expected 3 entities with Position+Velocity, got %d", count)
	}
}

// go test -run ^TestFilterSeesStructuralChanges$ . -count 1
func TestFilterSeesStructuralChanges(t *testing.T) {
	world := setupWorld(t)
	filter := ecs.NewFilter[Position](world)

	e := world.CreateEntity()
	ecs.SetComponent(world, e, Position{X: 7})

	filter.Reset()
	if !filter.Next() {
		t.Fatal("Filter missed an entity created after the filter")
	}
	if filter.Entity() != e {
		t.Errorf("Filter yielded the wrong entity: %+v", filter.Entity())
	}

	world.DestroyEntity(e)
	filter.Reset()
	if filter.Next() {
		t.Fatal("Filter yielded a destroyed entity")
	}
}

// go test -run ^TestView4Memoization$ . -count 1
func TestView4Memoization(t *testing.T) {
	world := setupWorld(t)

	for i := 0; i < 3; i++ {
		e := world.CreateEntity()
		ecs.SetComponent(world, e, Position{X: float32(i)})
		ecs.SetComponent(world, e, Velocity{})
		ecs.SetComponent(world, e, Health{Current: i})
		ecs.SetComponent(world, e, Tag{})
	}

	view := ecs.NewView4[Position, Velocity, Health, Tag](world)
	view.Refresh()
	if view.Rescans() != 1 {
		t.Fatalf("Expected 1 rescan after first refresh, got %d", view.Rescans())
	}

	rows := 0
	for _, b := range view.Blocks() {
		rows += len(b.C1)
		if len(b.C2) != len(b.C1) || len(b.C3) != len(b.C1) || len(b.C4) != len(b.C1) {
			t.Fatal("Block column lengths disagree")
		}
	}
	if rows != 3 {
		t.Errorf("Expected 3 rows across blocks, got %d", rows)
	}

	// Value writes and repeated refreshes must not rescan.
	for _, b := range view.Blocks() {
		for i := range b.C1 {
			b.C1[i].Y = 42
		}
	}
	view.Refresh()
	view.Refresh()
	if view.Rescans() != 1 {
		t.Errorf("Refresh rescanned an unchanged world: %d rescans", view.Rescans())
	}

	// A structural change forces exactly one rescan.
	e := world.CreateEntity()
	ecs.SetComponent(world, e, Position{X: 99})
	ecs.SetComponent(world, e, Velocity{})
	ecs.SetComponent(world, e, Health{})
	ecs.SetComponent(world, e, Tag{})
	view.Refresh()
	if view.Rescans() != 2 {
		t.Errorf("Expected 2 rescans after structural change, got %d", view.Rescans())
	}
	rows = 0
	for _, b := range view.Blocks() {
		rows += len(b.C1)
	}
	if rows != 4 {
		t.Errorf("Expected 4 rows after spawn, got %d", rows)
	}
}

// go test -run ^TestView4WriteThrough$ . -count 1
func TestView4WriteThrough(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	ecs.SetComponent(world, e, Position{})
	ecs.SetComponent(world, e, Velocity{})
	ecs.SetComponent(world, e, Health{})
	ecs.SetComponent(world, e, Tag{})

	view := ecs.NewView4[Position, Velocity, Health, Tag](world)
	view.Refresh()
	view.Blocks()[0].C3[0].Current = 77

	h := ecs.GetComponent[Health](world, e)
	if h.Current != 77 {
		t.Errorf("Block write did not reach table storage: %+v", h)
	}
}

// go test -run ^TestColumnGrowth$ . -count 1
func TestColumnGrowth(t *testing.T) {
	world := setupWorld(t)

	// Push one table well past several doublings and verify nothing is lost.
	const n = 100
	entities := make([]ecs.Entity, n)
	for i := range entities {
		e := world.CreateEntity()
		ecs.SetComponent(world, e, Health{Current: i, Max: i * 2})
		entities[i] = e
	}
	for i, e := range entities {
		h := ecs.GetComponent[Health](world, e)
		if h == nil || h.Current != i || h.Max != i*2 {
			t.Fatalf("Entity %d data lost across column growth: %+v", i, h)
		}
	}
}

// go test -run ^TestPointerComponentsSurviveRelocation$ . -count 1
func TestPointerComponentsSurviveRelocation(t *testing.T) {
	type Name struct{ S string }
	world := ecs.NewWorld()

	const n = 64
	entities := make([]ecs.Entity, n)
	for i := range entities {
		e := world.CreateEntity()
		ecs.SetComponent(world, e, Name{S: string(rune('a' + i%26))})
		entities[i] = e
	}
	// Churn to force swaps and column relocation.
	for i := 0; i < n; i += 2 {
		world.DestroyEntity(entities[i])
	}
	for i := 1; i < n; i += 2 {
		got := ecs.GetComponent[Name](world, entities[i])
		want := string(rune('a' + i%26))
		if got == nil || got.S != want {
			t.Fatalf("Entity %d: want %q, got %+v", i, want, got)
		}
	}
}
