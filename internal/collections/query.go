package collections

import (
	"sort"
	"strings"
	"time"

	"github.com/toolshelf/shelf/internal/domain"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	SortByName SortKey = "name" // lexicographic ascending
	SortByDate SortKey = "date" // UpdatedAt descending
	SortBySize SortKey = "size" // item count descending
)

// recentLimit caps the Recent view.
const recentLimit = 5

// Sort reorders the stored list. Pinned collections are stably moved to
// the front with the requested ordering applied within each partition.
// Sorting persists the new order but does not touch any UpdatedAt.
// An unknown key leaves the list untouched.
func (s *Store) Sort(by SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch by {
	case SortByName:
		sort.SliceStable(s.list, func(i, j int) bool {
			return strings.ToLower(s.list[i].Name) < strings.ToLower(s.list[j].Name)
		})
	case SortByDate:
		sort.SliceStable(s.list, func(i, j int) bool {
			return s.list[i].UpdatedAt > s.list[j].UpdatedAt
		})
	case SortBySize:
		sort.SliceStable(s.list, func(i, j int) bool {
			return len(s.list[i].Items) > len(s.list[j].Items)
		})
	default:
		return
	}

	// Pinned first, preserving relative order within each partition.
	sort.SliceStable(s.list, func(i, j int) bool {
		return s.list[i].Pinned && !s.list[j].Pinned
	})

	s.persistLocked()
	s.emit("sort", string(by), 0)
}

// Search returns copies of the collections whose name, description, or any
// tag contains the query, case-insensitively. A blank query returns the
// full list.
func (s *Store) Search(query string) []*domain.Collection {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.All()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Collection{}
	for _, c := range s.list {
		if matches(c, query) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func matches(c *domain.Collection, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(c.Name), lowerQuery) {
		return true
	}
	if c.Description != "" && strings.Contains(strings.ToLower(c.Description), lowerQuery) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}

// All returns copies of every collection in stored order.
func (s *Store) All() []*domain.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Collection, 0, len(s.list))
	for _, c := range s.list {
		out = append(out, c.Clone())
	}
	return out
}

// Count returns the number of collections.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// Pinned returns copies of the pinned collections in stored order.
func (s *Store) Pinned() []*domain.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Collection{}
	for _, c := range s.list {
		if c.Pinned {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Recent returns copies of the most recently updated collections, capped
// at five, most recent first.
func (s *Store) Recent() []*domain.Collection {
	all := s.All()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].UpdatedAt > all[j].UpdatedAt
	})
	if len(all) > recentLimit {
		all = all[:recentLimit]
	}
	return all
}

// Stats summarises one collection. The category breakdown is left empty:
// the store has no resource data, so the resource-aware caller fills it in.
type Stats struct {
	Size        int            `json:"size"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Categories  map[string]int `json:"categories"`
}

// GetStats reports stats for a collection. An unknown id reports a zero
// size and the current time rather than an error.
func (s *Store) GetStats(id string) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Categories: map[string]int{}}
	if c := s.findLocked(id); c != nil {
		st.Size = len(c.Items)
		st.LastUpdated = time.UnixMilli(c.UpdatedAt)
	} else {
		st.LastUpdated = s.now()
	}
	return st
}
