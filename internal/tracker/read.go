package tracker

import (
	"encoding/json"
	"sync"

	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
)

// Read tracks which resources the user has not read yet. The persisted
// form is the unread id list, so a resource nobody ever touched counts
// as read until it is explicitly marked unread.
type Read struct {
	mu      sync.RWMutex
	unread  []int
	storage storage.Adapter
	key     string
	log     logger.Logger
}

// NewRead builds the read tracker and loads the persisted unread list.
func NewRead(adapter storage.Adapter, log logger.Logger) *Read {
	r := &Read{
		unread:  []int{},
		storage: adapter,
		key:     ReadStorageKey,
		log:     log,
	}
	if raw := loadRaw(adapter, r.key, log); raw != nil {
		if err := json.Unmarshal(raw, &r.unread); err != nil {
			log.Warn("corrupt unread list discarded", logger.Error(err))
			r.unread = []int{}
		}
	}
	return r
}

// IsRead reports whether a resource is read (absent from the unread list).
func (r *Read) IsRead(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !contains(r.unread, id)
}

// MarkRead removes a resource from the unread list.
func (r *Read) MarkRead(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.unread[:0]
	for _, v := range r.unread {
		if v != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(r.unread) {
		return
	}
	r.unread = kept
	r.persistLocked()
}

// MarkUnread adds a resource to the unread list, once.
func (r *Read) MarkUnread(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if contains(r.unread, id) {
		return
	}
	r.unread = append(r.unread, id)
	r.persistLocked()
}

// Toggle flips the read status and returns the new value.
func (r *Read) Toggle(id int) bool {
	if r.IsRead(id) {
		r.MarkUnread(id)
		return false
	}
	r.MarkRead(id)
	return true
}

// MarkAllRead empties the unread list.
func (r *Read) MarkAllRead() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.unread) == 0 {
		return
	}
	r.unread = []int{}
	r.persistLocked()
}

// Unread returns a copy of the unread id list.
func (r *Read) Unread() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, len(r.unread))
	copy(out, r.unread)
	return out
}

// UnreadCount returns how many resources are unread.
func (r *Read) UnreadCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.unread)
}

func (r *Read) persistLocked() {
	payload, err := json.Marshal(r.unread)
	if err != nil {
		r.log.Warn("failed to encode unread list", logger.Error(err))
		return
	}
	persistRaw(r.storage, r.key, payload, r.log)
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
