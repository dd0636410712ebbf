package tracker

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
)

// Views counts how often each resource has been opened.
type Views struct {
	mu      sync.RWMutex
	counts  map[int]int
	storage storage.Adapter
	key     string
	log     logger.Logger
}

// ViewCount pairs a resource id with its view count.
type ViewCount struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

// NewViews builds the view tracker and loads persisted counts.
func NewViews(adapter storage.Adapter, log logger.Logger) *Views {
	v := &Views{
		counts:  make(map[int]int),
		storage: adapter,
		key:     ViewsStorageKey,
		log:     log,
	}
	if raw := loadRaw(adapter, v.key, log); raw != nil {
		if err := json.Unmarshal(raw, &v.counts); err != nil {
			log.Warn("corrupt view counts discarded", logger.Error(err))
			v.counts = make(map[int]int)
		}
	}
	return v
}

// Increment bumps the count for a resource and returns the new value.
func (v *Views) Increment(id int) int {
	v.mu.Lock()
	v.counts[id]++
	n := v.counts[id]
	v.persistLocked()
	v.mu.Unlock()
	return n
}

// Get returns the view count for a resource, zero when never viewed.
func (v *Views) Get(id int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.counts[id]
}

// Total returns the sum of all view counts.
func (v *Views) Total() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	total := 0
	for _, n := range v.counts {
		total += n
	}
	return total
}

// Top returns the most viewed resources, highest first. A limit of zero
// or less returns them all. Ties break on the lower id so the order is
// stable across calls.
func (v *Views) Top(limit int) []ViewCount {
	v.mu.RLock()
	out := make([]ViewCount, 0, len(v.counts))
	for id, n := range v.counts {
		out = append(out, ViewCount{ID: id, Count: n})
	}
	v.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Reset removes the count for one resource.
func (v *Views) Reset(id int) {
	v.mu.Lock()
	delete(v.counts, id)
	v.persistLocked()
	v.mu.Unlock()
}

func (v *Views) persistLocked() {
	payload, err := json.Marshal(v.counts)
	if err != nil {
		v.log.Warn("failed to encode view counts", logger.Error(err))
		return
	}
	persistRaw(v.storage, v.key, payload, v.log)
}
