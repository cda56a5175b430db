package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/slimeball/ecs/component"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false the second time")
				}
			}
		})
	}
}

func TestDestroyedIDIsReusedWithNewGeneration(t *testing.T) {
	w := NewWorld()
	old := CreateEntity(w)
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected id %d to be reused, got %d", old.id(), reused.id())
	}
	if reused.generation() == old.generation() {
		t.Fatalf("expected generation to change, both are %d", old.generation())
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle %s should not be alive", old)
	}
	if !IsAlive(w, reused) {
		t.Fatalf("new handle %s should be alive", reused)
	}
}

func TestSparseWorldComponents(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	one, two, hello := 1, 2, "hello"

	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, ints.Kind(), &one) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				if !ok || *v != 1 {
					t.Fatalf("expected 1, got %v (ok=%v)", v, ok)
				}
			},
		},
		{
			name:  "replace_int_on_e1",
			setup: func() error { return Add(w, e1, ints.Kind(), &two) },
			check: func(t *testing.T) {
				v, _ := Get(w, e1, ints.Kind())
				if *v != 2 {
					t.Fatalf("expected 2, got %d", *v)
				}
			},
		},
		{
			name:  "add_string_to_e2",
			setup: func() error { return Add(w, e2, strs.Kind(), &hello) },
			check: func(t *testing.T) {
				if Has(w, e2, ints.Kind()) {
					t.Fatalf("e2 should not have an int")
				}
				if !Has(w, e2, strs.Kind()) {
					t.Fatalf("e2 should have a string")
				}
			},
		},
		{
			name:  "remove_int_from_e1",
			setup: func() error { Remove(w, e1, ints.Kind()); return nil },
			check: func(t *testing.T) {
				if _, ok := Get(w, e1, ints.Kind()); ok {
					t.Fatalf("int should be gone from e1")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.setup(); err != nil {
				t.Fatalf("setup: %v", err)
			}
			tt.check(t)
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	alive := CreateEntity(w)
	dead := CreateEntity(w)
	DestroyEntity(w, dead)
	v := 3

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"dead_entity", Add(w, dead, ints.Kind(), &v), component.ErrEntityNotAlive},
		{"nil_value", Add(w, alive, ints.Kind(), nil), component.ErrNilComponent},
		{"zero_kind", Add(w, alive, component.ComponentKind[int]{}, &v), component.ErrInvalidComponentKind},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !errors.Is(c.err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, c.err)
			}
		})
	}
}

func TestGetMutatesInPlace(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if err := Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	tr, _ := Get(w, e, component.TransformComponent.Kind())
	tr.X = 5

	again, _ := Get(w, e, component.TransformComponent.Kind())
	if again.X != 5 {
		t.Fatalf("expected X=5 after mutation, got %v", again.X)
	}
}

func TestQueryAndForEach(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	both := CreateEntity(w)
	onlyInt := CreateEntity(w)
	onlyStr := CreateEntity(w)

	a, b, s1, s2 := 1, 2, "x", "y"
	_ = Add(w, both, ints.Kind(), &a)
	_ = Add(w, both, strs.Kind(), &s1)
	_ = Add(w, onlyInt, ints.Kind(), &b)
	_ = Add(w, onlyStr, strs.Kind(), &s2)

	got := w.Query(ints.Kind(), strs.Kind())
	if len(got) != 1 || got[0] != both {
		t.Fatalf("expected only %s, got %v", both, got)
	}

	seen := map[Entity]int{}
	ForEach(w, ints.Kind(), func(e Entity, v *int) { seen[e] = *v })
	if len(seen) != 2 || seen[both] != 1 || seen[onlyInt] != 2 {
		t.Fatalf("unexpected ForEach result %v", seen)
	}

	count := 0
	ForEach2(w, ints.Kind(), strs.Kind(), func(e Entity, v *int, s *string) {
		count++
		if e != both || *v != 1 || *s != "x" {
			t.Fatalf("unexpected ForEach2 visit %s %d %q", e, *v, *s)
		}
	})
	if count != 1 {
		t.Fatalf("expected one ForEach2 visit, got %d", count)
	}

	DestroyEntity(w, both)
	if got := w.Query(ints.Kind(), strs.Kind()); len(got) != 0 {
		t.Fatalf("destroyed entity still queried: %v", got)
	}
	if first, ok := w.First(strs.Kind()); !ok || first != onlyStr {
		t.Fatalf("expected First to return %s, got %s (ok=%v)", onlyStr, first, ok)
	}
}

func TestQueryUnknownKind(t *testing.T) {
	w := NewWorld()
	CreateEntity(w)
	if got := w.Query(component.NewComponent[int]().Kind()); got != nil {
		t.Fatalf("expected nil for unused kind, got %v", got)
	}
	if _, ok := w.First(component.NewComponent[int]().Kind()); ok {
		t.Fatalf("First should fail on unused kind")
	}
}

type recordingSystem struct {
	name  string
	order *[]string
	seen  int
}

func (r *recordingSystem) Update(w *World) {
	*r.order = append(*r.order, r.name)
	r.seen = w.Events().Len()
}

func TestSchedulerRunsInOrderAndFlushesEvents(t *testing.T) {
	w := NewWorld()
	var order []string
	first := &recordingSystem{name: "first", order: &order}
	second := &recordingSystem{name: "second", order: &order}
	sched := NewScheduler(first)
	sched.Add(second)
	sched.Add(nil)

	w.Events().Push(Event{Type: EventKeyDown})
	sched.Update(w)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected order %v", order)
	}
	if first.seen != 1 || second.seen != 1 {
		t.Fatalf("both systems should see the pending event, got %d and %d", first.seen, second.seen)
	}
	if w.Events().Len() != 0 {
		t.Fatalf("events should be flushed after update")
	}
	if len(sched.Systems()) != 2 {
		t.Fatalf("nil system should not be added")
	}
}
