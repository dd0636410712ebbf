package catalog

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/toolshelf/shelf/internal/domain"
)

// Index provides in-memory storage and lookup for catalog resources.
// Resources are replaced wholesale on each reload; lookups are cheap
// and hold a read lock only.
type Index struct {
	mu         sync.RWMutex
	byID       map[int]*domain.Resource // ID -> Resource
	ordered    []*domain.Resource       // catalog order, as loaded
	lastReload time.Time                // Timestamp of last catalog reload
}

// NewIndex creates a new catalog index.
func NewIndex() *Index {
	return &Index{
		byID: make(map[int]*domain.Resource),
	}
}

// Update replaces all resources in the index.
func (idx *Index) Update(resources []*domain.Resource) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.byID = make(map[int]*domain.Resource, len(resources))
	idx.ordered = make([]*domain.Resource, 0, len(resources))
	for _, r := range resources {
		if _, dup := idx.byID[r.ID]; dup {
			continue
		}
		idx.byID[r.ID] = r
		idx.ordered = append(idx.ordered, r)
	}
	idx.lastReload = time.Now()
}

// Get retrieves a resource by ID.
func (idx *Index) Get(id int) (*domain.Resource, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	r, ok := idx.byID[id]
	return r, ok
}

// All returns all resources in catalog order.
func (idx *Index) All() []*domain.Resource {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*domain.Resource, len(idx.ordered))
	copy(out, idx.ordered)
	return out
}

// Count returns the number of resources in the index.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.ordered)
}

// Categories returns each category with its resource count, sorted by name.
func (idx *Index) Categories() []CategoryCount {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	counts := make(map[string]int)
	for _, r := range idx.ordered {
		counts[r.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CategoryCount pairs a category name with how many resources it holds.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Filter returns resources matching the query and category, in catalog
// order. A blank query matches everything; a blank category skips the
// category check. The query is matched case-insensitively against name,
// description and category.
func (idx *Index) Filter(query, category string) []*domain.Resource {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*domain.Resource, 0)
	for _, r := range idx.ordered {
		if category != "" && !strings.EqualFold(r.Category, category) {
			continue
		}
		if q != "" && !matches(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r *domain.Resource, q string) bool {
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Description), q) ||
		strings.Contains(strings.ToLower(r.Category), q)
}

// CategoryOf returns the category of a resource, or "" when unknown.
// Collection statistics use it to bucket member resources.
func (idx *Index) CategoryOf(id int) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if r, ok := idx.byID[id]; ok {
		return r.Category
	}
	return ""
}

// LastReload returns the timestamp of the last catalog reload.
func (idx *Index) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
