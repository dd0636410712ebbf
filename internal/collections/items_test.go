package collections

import (
	"testing"
	"time"
)

func TestAddItemNoDuplicates(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Dedup", "", CreateOptions{})

	e.store.AddItem(id, 42)
	e.store.AddItem(id, 42)

	c, _ := e.store.Get(id)
	if len(c.Items) != 1 || c.Items[0] != 42 {
		t.Errorf("Items = %v, want [42]", c.Items)
	}
}

func TestAddItemPreservesOrder(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Ordered", "", CreateOptions{})

	for _, rid := range []int{5, 3, 9, 3, 5, 1} {
		e.store.AddItem(id, rid)
	}

	c, _ := e.store.Get(id)
	want := []int{5, 3, 9, 1}
	if len(c.Items) != len(want) {
		t.Fatalf("Items = %v, want %v", c.Items, want)
	}
	for i := range want {
		if c.Items[i] != want[i] {
			t.Errorf("Items[%d] = %d, want %d", i, c.Items[i], want[i])
		}
	}
}

func TestAddItemUnknownCollection(t *testing.T) {
	e := newEnv(t)
	e.store.AddItem("no-such-id", 1) // must not panic or error
	if e.store.Count() != 0 {
		t.Error("AddItem on unknown id created state")
	}
}

func TestAddItemsBatch(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Batch", "", CreateOptions{})
	e.store.AddItem(id, 2)
	before, _ := e.store.Get(id)

	e.clock.Advance(time.Second)
	e.store.AddItems(id, []int{1, 2, 3})

	c, _ := e.store.Get(id)
	want := []int{2, 1, 3}
	if len(c.Items) != len(want) {
		t.Fatalf("Items = %v, want %v", c.Items, want)
	}
	for i := range want {
		if c.Items[i] != want[i] {
			t.Errorf("Items[%d] = %d, want %d", i, c.Items[i], want[i])
		}
	}
	if c.UpdatedAt <= before.UpdatedAt {
		t.Error("batch add should touch UpdatedAt once")
	}

	// A batch with nothing new must not touch the collection at all.
	touched := c.UpdatedAt
	e.clock.Advance(time.Second)
	e.store.AddItems(id, []int{1, 2, 3})
	c, _ = e.store.Get(id)
	if c.UpdatedAt != touched {
		t.Error("no-op batch add touched UpdatedAt")
	}

	e.store.AddItems(id, nil) // empty batch is a no-op
}

func TestRemoveItemIdempotent(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Removal", "", CreateOptions{})
	e.store.AddItems(id, []int{1, 2, 3})

	e.store.RemoveItem(id, 2)
	c, _ := e.store.Get(id)
	if len(c.Items) != 2 || c.Items[0] != 1 || c.Items[1] != 3 {
		t.Errorf("Items = %v, want [1 3]", c.Items)
	}

	// Removing an absent id leaves membership unchanged and does not panic.
	e.store.RemoveItem(id, 999)
	c, _ = e.store.Get(id)
	if len(c.Items) != 2 {
		t.Errorf("Items = %v after removing absent id, want [1 3]", c.Items)
	}

	e.store.RemoveItem("no-such-id", 1)
}

func TestContains(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Membership", "", CreateOptions{})
	e.store.AddItem(id, 10)

	if !e.store.Contains(id, 10) {
		t.Error("Contains(10) = false, want true")
	}
	if e.store.Contains(id, 11) {
		t.Error("Contains(11) = true, want false")
	}
	if e.store.Contains("no-such-id", 10) {
		t.Error("Contains on unknown collection = true, want false")
	}
}
