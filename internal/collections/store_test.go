package collections

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/toolshelf/shelf/internal/domain"
	"github.com/toolshelf/shelf/internal/events"
	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
)

// fakeClock hands out a controllable, strictly advancing time.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

type env struct {
	store   *Store
	adapter *storage.Memory
	sink    *events.Recorder
	clock   *fakeClock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	adapter := storage.NewMemory()
	sink := &events.Recorder{}
	clock := newFakeClock()
	store := NewStore(adapter, sink, logger.New("error", false), Options{
		BaseURL: "https://shelf.example.com",
		Now:     clock.Now,
	})
	return &env{store: store, adapter: adapter, sink: sink, clock: clock}
}

func TestAddCollection(t *testing.T) {
	e := newEnv(t)

	id, err := e.store.Add("K8s Tools", "", CreateOptions{})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id == "" {
		t.Fatal("Add returned empty id")
	}

	c, ok := e.store.Get(id)
	if !ok {
		t.Fatal("Get did not find the new collection")
	}
	if c.Name != "K8s Tools" {
		t.Errorf("Name = %q, want %q", c.Name, "K8s Tools")
	}
	if len(c.Items) != 0 {
		t.Errorf("Items = %v, want empty", c.Items)
	}
	if c.CreatedAt != c.UpdatedAt {
		t.Errorf("CreatedAt %d != UpdatedAt %d on a fresh collection", c.CreatedAt, c.UpdatedAt)
	}
}

func TestAddCollectionTrimsAndValidates(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain name", "Tools", false},
		{"padded name", "  Tools  ", false},
		{"empty name", "", true},
		{"whitespace only", "   \t ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := e.store.Add(tt.input, "", CreateOptions{})
			if tt.wantErr {
				if !errors.Is(err, domain.ErrEmptyName) {
					t.Errorf("Add(%q) error = %v, want ErrEmptyName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add(%q) failed: %v", tt.input, err)
			}
			c, _ := e.store.Get(id)
			if c.Name != "Tools" {
				t.Errorf("Name = %q, want trimmed %q", c.Name, "Tools")
			}
		})
	}
}

func TestRejectedAddLeavesNoState(t *testing.T) {
	e := newEnv(t)

	if _, err := e.store.Add("  ", "desc", CreateOptions{}); err == nil {
		t.Fatal("Add with blank name should fail")
	}
	if got := e.store.Count(); got != 0 {
		t.Errorf("Count = %d after rejected create, want 0", got)
	}
	if got := len(e.sink.Actions()); got != 0 {
		t.Errorf("events emitted on rejected create: %v", e.sink.Actions())
	}
}

func TestAddCollectionOptions(t *testing.T) {
	e := newEnv(t)

	id, err := e.store.Add("Pinned", "with options", CreateOptions{
		Color:  "#ff0000",
		Tags:   []string{"infra", "ci"},
		Pinned: true,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	c, _ := e.store.Get(id)
	if c.Color != "#ff0000" {
		t.Errorf("Color = %q", c.Color)
	}
	if len(c.Tags) != 2 || c.Tags[0] != "infra" {
		t.Errorf("Tags = %v", c.Tags)
	}
	if !c.Pinned {
		t.Error("Pinned not applied")
	}
}

func TestRemoveCollectionIdempotent(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Doomed", "", CreateOptions{})

	e.store.Remove(id)
	if _, ok := e.store.Get(id); ok {
		t.Error("collection still present after Remove")
	}

	// Removing again, or removing garbage, must not panic or mutate.
	e.store.Remove(id)
	e.store.Remove("no-such-id")
	if got := e.store.Count(); got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
}

func TestUpdateForcesTimestampAndKeepsCreation(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Original", "", CreateOptions{})
	before, _ := e.store.Get(id)

	e.clock.Advance(time.Minute)

	modified := *before
	modified.Name = "Renamed"
	modified.CreatedAt = 1 // caller tries to rewrite history
	modified.UpdatedAt = 1 // and to backdate the touch
	e.store.Update(modified)

	after, _ := e.store.Get(id)
	if after.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", after.Name)
	}
	if after.CreatedAt != before.CreatedAt {
		t.Errorf("CreatedAt changed: %d -> %d", before.CreatedAt, after.CreatedAt)
	}
	if after.UpdatedAt <= before.UpdatedAt {
		t.Errorf("UpdatedAt not refreshed: %d -> %d", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	e := newEnv(t)
	e.store.Update(domain.Collection{ID: "ghost", Name: "x"})
	if got := e.store.Count(); got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
}

func TestTogglePin(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Pin me", "", CreateOptions{})

	e.store.TogglePin(id)
	c, _ := e.store.Get(id)
	if !c.Pinned {
		t.Error("first toggle should pin")
	}

	e.store.TogglePin(id)
	c, _ = e.store.Get(id)
	if c.Pinned {
		t.Error("second toggle should unpin")
	}

	e.store.TogglePin("no-such-id") // no-op
}

func TestDuplicateCollection(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Source", "desc", CreateOptions{Tags: []string{"a"}, Color: "#0f0"})
	e.store.AddItems(id, []int{1, 2, 3})
	e.store.MakePublic(id, ShareOptions{Password: "hunter2"})

	e.clock.Advance(time.Hour)

	dupID := e.store.Duplicate(id)
	if dupID == "" || dupID == id {
		t.Fatalf("Duplicate returned %q", dupID)
	}

	dup, ok := e.store.Get(dupID)
	if !ok {
		t.Fatal("duplicate not found")
	}
	if dup.Name != "Source (Copy)" {
		t.Errorf("Name = %q, want %q", dup.Name, "Source (Copy)")
	}
	if len(dup.Items) != 3 {
		t.Errorf("Items = %v, want 3 entries", dup.Items)
	}
	if dup.Color != "#0f0" || len(dup.Tags) != 1 {
		t.Errorf("metadata not copied: color=%q tags=%v", dup.Color, dup.Tags)
	}
	if dup.IsPublic || dup.ShareID != "" || dup.SharePassword != "" || dup.ShareExpiry != 0 {
		t.Error("sharing state leaked into the duplicate")
	}

	src, _ := e.store.Get(id)
	if dup.CreatedAt <= src.CreatedAt {
		t.Error("duplicate should carry fresh timestamps")
	}
}

func TestDuplicateMissingReturnsSentinel(t *testing.T) {
	e := newEnv(t)
	if got := e.store.Duplicate("nonexistent-id"); got != "" {
		t.Errorf("Duplicate = %q, want empty sentinel", got)
	}
	if e.store.Count() != 0 {
		t.Error("duplicate of a missing source appended a collection")
	}
}

func TestTimestampMonotonicity(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Mono", "", CreateOptions{})

	mutations := []func(){
		func() { e.store.AddItem(id, 1) },
		func() { e.store.RemoveItem(id, 1) },
		func() { e.store.TogglePin(id) },
		func() { e.store.MakePublic(id, ShareOptions{}) },
		func() { e.store.MakePrivate(id) },
	}

	for i, mutate := range mutations {
		before, _ := e.store.Get(id)
		e.clock.Advance(time.Second)
		mutate()
		after, _ := e.store.Get(id)

		if after.UpdatedAt < before.UpdatedAt {
			t.Errorf("mutation %d: UpdatedAt went backwards (%d -> %d)", i, before.UpdatedAt, after.UpdatedAt)
		}
		if after.UpdatedAt < after.CreatedAt {
			t.Errorf("mutation %d: UpdatedAt %d < CreatedAt %d", i, after.UpdatedAt, after.CreatedAt)
		}
	}
}

func TestRoundTripThroughStorage(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Tools", "desc", CreateOptions{})
	e.store.Flush()

	reloaded := NewStore(e.adapter, &events.Recorder{}, logger.New("error", false), Options{
		BaseURL: "https://shelf.example.com",
		Now:     e.clock.Now,
	})

	c, ok := reloaded.Get(id)
	if !ok {
		t.Fatal("collection lost across reload")
	}
	if c.Name != "Tools" || c.Description != "desc" {
		t.Errorf("round trip mismatch: name=%q desc=%q", c.Name, c.Description)
	}
	if len(c.Items) != 0 {
		t.Errorf("Items = %v, want empty", c.Items)
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	adapter := storage.NewMemory()
	adapter.MaxBytes = 1 // everything overflows
	sink := &events.Recorder{}
	store := NewStore(adapter, sink, logger.New("error", false), Options{})

	id, err := store.Add("Survivor", "", CreateOptions{})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	store.Flush()

	// The write failed but the in-memory state keeps the user's action.
	if _, ok := store.Get(id); !ok {
		t.Error("in-memory state rolled back after a persistence failure")
	}

	found := false
	for _, a := range sink.Actions() {
		if a == "persist_error" {
			found = true
		}
	}
	if !found {
		t.Errorf("persist_error not reported, got %v", sink.Actions())
	}
}

func TestEventsEmitted(t *testing.T) {
	e := newEnv(t)

	id, _ := e.store.Add("Evented", "", CreateOptions{})
	e.store.AddItem(id, 7)
	e.store.TogglePin(id)
	e.store.Remove(id)

	want := []string{"create", "add_item", "pin", "delete"}
	got := e.sink.Actions()
	if len(got) != len(want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	for _, ev := range e.sink.Events() {
		if ev.Category != "collection" {
			t.Errorf("event category = %q, want collection", ev.Category)
		}
	}
}

func TestGetReturnsCopy(t *testing.T) {
	e := newEnv(t)
	id, _ := e.store.Add("Guarded", "", CreateOptions{})
	e.store.AddItem(id, 1)

	c, _ := e.store.Get(id)
	c.Name = "mutated"
	c.Items[0] = 999

	again, _ := e.store.Get(id)
	if again.Name != "Guarded" || again.Items[0] != 1 {
		t.Error("store state mutated through a returned copy")
	}
}
