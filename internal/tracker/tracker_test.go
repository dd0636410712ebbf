package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/toolshelf/shelf/internal/events"
	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
)

func testLogger() logger.Logger {
	return logger.New("error", false)
}

type tickClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickClock() *tickClock {
	return &tickClock{now: time.UnixMilli(1_700_000_000_000)}
}

// Now advances one millisecond per call so every timestamp is distinct.
func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func TestViewsIncrementAndGet(t *testing.T) {
	v := NewViews(storage.NewMemory(), testLogger())

	if v.Get(1) != 0 {
		t.Error("unseen resource should have zero views")
	}
	if got := v.Increment(1); got != 1 {
		t.Errorf("first Increment = %d, want 1", got)
	}
	v.Increment(1)
	v.Increment(2)

	if v.Get(1) != 2 || v.Get(2) != 1 {
		t.Errorf("counts = %d/%d, want 2/1", v.Get(1), v.Get(2))
	}
	if v.Total() != 3 {
		t.Errorf("Total = %d, want 3", v.Total())
	}
}

func TestViewsTop(t *testing.T) {
	v := NewViews(storage.NewMemory(), testLogger())
	for i := 0; i < 5; i++ {
		v.Increment(10)
	}
	for i := 0; i < 3; i++ {
		v.Increment(20)
	}
	v.Increment(30)
	v.Increment(31) // tie with 30

	top := v.Top(3)
	if len(top) != 3 {
		t.Fatalf("Top(3) returned %d entries", len(top))
	}
	if top[0].ID != 10 || top[0].Count != 5 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].ID != 20 || top[1].Count != 3 {
		t.Errorf("top[1] = %+v", top[1])
	}
	if top[2].ID != 30 {
		t.Errorf("tie should break on lower id, got %+v", top[2])
	}

	if got := v.Top(0); len(got) != 4 {
		t.Errorf("Top(0) returned %d entries, want all 4", len(got))
	}
}

func TestViewsPersistRoundTrip(t *testing.T) {
	adapter := storage.NewMemory()
	v := NewViews(adapter, testLogger())
	v.Increment(7)
	v.Increment(7)

	reloaded := NewViews(adapter, testLogger())
	if got := reloaded.Get(7); got != 2 {
		t.Errorf("reloaded count = %d, want 2", got)
	}
}

func TestViewsCorruptPayload(t *testing.T) {
	adapter := storage.NewMemory()
	_ = adapter.Set(context.Background(), ViewsStorageKey, []byte("broken"))

	v := NewViews(adapter, testLogger())
	if v.Total() != 0 {
		t.Errorf("Total = %d after corrupt load, want 0", v.Total())
	}
	if got := v.Increment(1); got != 1 {
		t.Errorf("Increment after corrupt load = %d, want 1", got)
	}
}

func TestReadDefaultsToRead(t *testing.T) {
	r := NewRead(storage.NewMemory(), testLogger())
	if !r.IsRead(42) {
		t.Error("untouched resource should be read")
	}
	if r.UnreadCount() != 0 {
		t.Errorf("UnreadCount = %d, want 0", r.UnreadCount())
	}
}

func TestReadMarkAndToggle(t *testing.T) {
	r := NewRead(storage.NewMemory(), testLogger())

	r.MarkUnread(1)
	r.MarkUnread(1) // idempotent
	r.MarkUnread(2)
	if r.IsRead(1) || r.UnreadCount() != 2 {
		t.Errorf("unread = %v", r.Unread())
	}

	r.MarkRead(1)
	if !r.IsRead(1) || r.UnreadCount() != 1 {
		t.Errorf("unread after MarkRead = %v", r.Unread())
	}

	if got := r.Toggle(2); got != true {
		t.Error("Toggle of unread resource should return read=true")
	}
	if got := r.Toggle(2); got != false {
		t.Error("Toggle of read resource should return read=false")
	}

	r.MarkUnread(5)
	r.MarkAllRead()
	if r.UnreadCount() != 0 {
		t.Errorf("UnreadCount after MarkAllRead = %d", r.UnreadCount())
	}
}

func TestReadPersistRoundTrip(t *testing.T) {
	adapter := storage.NewMemory()
	r := NewRead(adapter, testLogger())
	r.MarkUnread(3)
	r.MarkUnread(9)

	reloaded := NewRead(adapter, testLogger())
	if reloaded.IsRead(3) || reloaded.IsRead(9) {
		t.Error("unread marks lost across reload")
	}
}

func TestBookmarksToggle(t *testing.T) {
	sink := &events.Recorder{}
	b := NewBookmarks(storage.NewMemory(), sink, testLogger(), BookmarkOptions{})

	if got := b.Toggle(1, "Kubernetes", "Orchestration"); !got {
		t.Error("first toggle should bookmark")
	}
	if !b.IsBookmarked(1) || b.Count() != 1 {
		t.Errorf("state after add: bookmarked=%v count=%d", b.IsBookmarked(1), b.Count())
	}

	if got := b.Toggle(1, "Kubernetes", "Orchestration"); got {
		t.Error("second toggle should remove")
	}
	if b.IsBookmarked(1) || b.Count() != 0 {
		t.Error("bookmark not removed")
	}

	actions := sink.Actions()
	if len(actions) != 2 || actions[0] != "add" || actions[1] != "remove" {
		t.Errorf("events = %v, want [add remove]", actions)
	}
}

func TestBookmarksCapEvictsOldest(t *testing.T) {
	clock := newTickClock()
	b := NewBookmarks(storage.NewMemory(), events.NopSink{}, testLogger(), BookmarkOptions{
		Max: 3,
		Now: clock.Now,
	})

	b.Toggle(1, "a", "")
	b.Toggle(2, "b", "")
	b.Toggle(3, "c", "")
	b.Toggle(4, "d", "")

	if b.Count() != 3 {
		t.Fatalf("Count = %d, want cap of 3", b.Count())
	}
	if b.IsBookmarked(1) {
		t.Error("oldest bookmark should have been evicted")
	}
	for _, id := range []int{2, 3, 4} {
		if !b.IsBookmarked(id) {
			t.Errorf("bookmark %d missing", id)
		}
	}
}

func TestBookmarksAllNewestFirst(t *testing.T) {
	clock := newTickClock()
	b := NewBookmarks(storage.NewMemory(), events.NopSink{}, testLogger(), BookmarkOptions{Now: clock.Now})

	b.Toggle(1, "first", "")
	b.Toggle(2, "second", "")
	b.Toggle(3, "third", "")

	all := b.All()
	want := []int{3, 2, 1}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("All[%d].ID = %d, want %d", i, all[i].ID, id)
		}
	}
}

func TestBookmarksLegacyIDArrayMigrates(t *testing.T) {
	adapter := storage.NewMemory()
	_ = adapter.Set(context.Background(), BookmarksStorageKey, []byte("[4, 8, 15]"))

	b := NewBookmarks(adapter, events.NopSink{}, testLogger(), BookmarkOptions{})
	if b.Count() != 3 {
		t.Fatalf("Count = %d, want 3 from legacy payload", b.Count())
	}
	for _, id := range []int{4, 8, 15} {
		if !b.IsBookmarked(id) {
			t.Errorf("legacy bookmark %d missing", id)
		}
	}
	for _, item := range b.All() {
		if item.Timestamp == 0 {
			t.Errorf("legacy bookmark %d has zero timestamp", item.ID)
		}
	}
}

func TestBookmarksPersistRoundTrip(t *testing.T) {
	adapter := storage.NewMemory()
	b := NewBookmarks(adapter, events.NopSink{}, testLogger(), BookmarkOptions{})
	b.Toggle(11, "Vault", "Secrets")

	reloaded := NewBookmarks(adapter, events.NopSink{}, testLogger(), BookmarkOptions{})
	if !reloaded.IsBookmarked(11) {
		t.Error("bookmark lost across reload")
	}
	all := reloaded.All()
	if all[0].Name != "Vault" || all[0].Category != "Secrets" {
		t.Errorf("metadata lost: %+v", all[0])
	}
}

func TestBookmarksClearAndRemove(t *testing.T) {
	b := NewBookmarks(storage.NewMemory(), events.NopSink{}, testLogger(), BookmarkOptions{})
	b.Toggle(1, "", "")
	b.Toggle(2, "", "")

	b.Remove(1)
	b.Remove(99) // no-op
	if b.IsBookmarked(1) || b.Count() != 1 {
		t.Errorf("Remove failed: count=%d", b.Count())
	}

	b.Clear()
	if b.Count() != 0 {
		t.Errorf("Count after Clear = %d", b.Count())
	}
}
