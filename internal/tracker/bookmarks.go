package tracker

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/toolshelf/shelf/internal/events"
	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
)

// DefaultMaxBookmarks caps the bookmark list; adding past the cap
// evicts the oldest entry.
const DefaultMaxBookmarks = 500

// Bookmark is one saved resource with the moment it was bookmarked,
// in unix milliseconds.
type Bookmark struct {
	ID        int    `json:"id"`
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Bookmarks tracks which resources the user has saved for later.
type Bookmarks struct {
	mu      sync.RWMutex
	list    []Bookmark
	max     int
	storage storage.Adapter
	key     string
	events  events.Sink
	log     logger.Logger
	now     func() time.Time
}

// BookmarkOptions tunes a Bookmarks tracker.
type BookmarkOptions struct {
	Max int              // defaults to DefaultMaxBookmarks
	Now func() time.Time // defaults to time.Now, injectable for tests
}

// NewBookmarks builds the bookmark tracker and loads persisted state.
// An older payload holding a bare id array still loads; each id gets
// the current time as its bookmark moment.
func NewBookmarks(adapter storage.Adapter, sink events.Sink, log logger.Logger, opts BookmarkOptions) *Bookmarks {
	if opts.Max <= 0 {
		opts.Max = DefaultMaxBookmarks
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if sink == nil {
		sink = events.NopSink{}
	}

	b := &Bookmarks{
		list:    []Bookmark{},
		max:     opts.Max,
		storage: adapter,
		key:     BookmarksStorageKey,
		events:  sink,
		log:     log,
		now:     opts.Now,
	}
	if raw := loadRaw(adapter, b.key, log); raw != nil {
		b.list = decodeBookmarks(raw, b.now().UnixMilli(), log)
	}
	return b
}

func decodeBookmarks(raw []byte, nowMs int64, log logger.Logger) []Bookmark {
	var list []Bookmark
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var ids []int
	if err := json.Unmarshal(raw, &ids); err == nil {
		list = make([]Bookmark, 0, len(ids))
		for _, id := range ids {
			list = append(list, Bookmark{ID: id, Timestamp: nowMs})
		}
		return list
	}

	log.Warn("corrupt bookmark list discarded")
	return []Bookmark{}
}

// Toggle adds the resource when absent and removes it when present,
// returning true when the resource ends up bookmarked. Adding past the
// cap evicts the oldest bookmark first.
func (b *Bookmarks) Toggle(id int, name, category string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, item := range b.list {
		if item.ID == id {
			b.list = append(b.list[:i], b.list[i+1:]...)
			b.persistLocked()
			b.events.Emit(events.Event{Category: "bookmark", Action: "remove", Label: name})
			return false
		}
	}

	if len(b.list) >= b.max {
		oldest := 0
		for i, item := range b.list {
			if item.Timestamp < b.list[oldest].Timestamp {
				oldest = i
			}
		}
		b.list = append(b.list[:oldest], b.list[oldest+1:]...)
	}

	b.list = append(b.list, Bookmark{
		ID:        id,
		Name:      name,
		Category:  category,
		Timestamp: b.now().UnixMilli(),
	})
	b.persistLocked()
	b.events.Emit(events.Event{Category: "bookmark", Action: "add", Label: name})
	return true
}

// Remove deletes a bookmark; unknown ids are a no-op.
func (b *Bookmarks) Remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, item := range b.list {
		if item.ID == id {
			b.list = append(b.list[:i], b.list[i+1:]...)
			b.persistLocked()
			return
		}
	}
}

// IsBookmarked reports whether a resource is currently bookmarked.
func (b *Bookmarks) IsBookmarked(id int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, item := range b.list {
		if item.ID == id {
			return true
		}
	}
	return false
}

// All returns the bookmarks, most recent first.
func (b *Bookmarks) All() []Bookmark {
	b.mu.RLock()
	out := make([]Bookmark, len(b.list))
	copy(out, b.list)
	b.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// Count returns how many bookmarks exist.
func (b *Bookmarks) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.list)
}

// Clear removes every bookmark.
func (b *Bookmarks) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.list) == 0 {
		return
	}
	b.list = []Bookmark{}
	b.persistLocked()
}

func (b *Bookmarks) persistLocked() {
	payload, err := json.Marshal(b.list)
	if err != nil {
		b.log.Warn("failed to encode bookmarks", logger.Error(err))
		return
	}
	persistRaw(b.storage, b.key, payload, b.log)
}
