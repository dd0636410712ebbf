// Package collections owns the user-defined collections of catalog resources:
// the in-memory list, every mutation, search/sort, sharing, and the
// persistence/migration logic around one storage key.
package collections

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/toolshelf/shelf/internal/domain"
	"github.com/toolshelf/shelf/internal/events"
	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
)

const (
	// DefaultStorageKey matches the key used by earlier versions so saved
	// user data migrates in place.
	DefaultStorageKey = "devops-resource-collections"

	// UntitledName is substituted for a missing name during migration.
	UntitledName = "Untitled Collection"

	// eventCategory tags every emitted event.
	eventCategory = "collection"

	persistTimeout = 5 * time.Second
)

// Options tunes a Store.
type Options struct {
	StorageKey string           // defaults to DefaultStorageKey
	BaseURL    string           // origin used to build share links (ex: "https://shelf.example.com")
	Now        func() time.Time // defaults to time.Now, injectable for tests
}

// Store holds the collection list and serializes all mutation through its
// methods. It is the single writer of its storage key: concurrent external
// writers to the same key are not reconciled.
//
// Mutations apply to the in-memory list synchronously and persist from a
// background goroutine; a failed write is logged and reported through the
// event sink but never rolled back, so the session keeps the user's last
// action even when it cannot yet be saved.
type Store struct {
	mu         sync.RWMutex
	storageKey string
	baseURL    string
	storage    storage.Adapter
	events     events.Sink
	log        logger.Logger
	now        func() time.Time

	list []*domain.Collection

	writes sync.WaitGroup
}

// NewStore builds a Store and loads persisted state through the adapter.
// Loading never fails: a missing key yields an empty list and a corrupt
// payload is logged and discarded rather than killing startup.
func NewStore(adapter storage.Adapter, sink events.Sink, log logger.Logger, opts Options) *Store {
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if sink == nil {
		sink = events.NopSink{}
	}

	s := &Store{
		storageKey: opts.StorageKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		storage:    adapter,
		events:     sink,
		log:        log,
		now:        opts.Now,
		list:       []*domain.Collection{},
	}
	s.load()
	return s
}

func (s *Store) load() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	raw, err := s.storage.Get(ctx, s.storageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("failed to load collections, starting empty",
				logger.String("key", s.storageKey),
				logger.Error(err))
		}
		return
	}

	list, notes := decode(raw, s.nowMs())
	s.list = list
	for _, note := range notes {
		s.log.Warn("collection migration", logger.String("note", note))
	}
	s.log.Info("collections loaded",
		logger.String("key", s.storageKey),
		logger.Int("count", len(list)),
		logger.Int("corrections", len(notes)))
}

func (s *Store) nowMs() int64 {
	return s.now().UnixMilli()
}

// persistLocked snapshots the list and writes it asynchronously.
// Callers must hold the write lock.
func (s *Store) persistLocked() {
	payload, err := json.Marshal(s.list)
	if err != nil {
		// Collections only hold JSON-encodable fields, so this indicates
		// a programming error. State stays in memory either way.
		s.log.Error("failed to marshal collections", logger.Error(err))
		return
	}

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := s.storage.Set(ctx, s.storageKey, payload); err != nil {
			s.log.Warn("failed to persist collections",
				logger.String("key", s.storageKey),
				logger.Error(err))
			s.events.Emit(events.Event{
				Category: eventCategory,
				Action:   "persist_error",
				Label:    s.storageKey,
			})
		}
	}()
}

// Flush waits for in-flight persistence writes. Call before shutdown or
// before reading storage directly in tests.
func (s *Store) Flush() {
	s.writes.Wait()
}

func (s *Store) emit(action, label string, value int) {
	s.events.Emit(events.Event{
		Category: eventCategory,
		Action:   action,
		Label:    label,
		Value:    value,
	})
}

// findLocked returns the live entry for id, or nil.
func (s *Store) findLocked(id string) *domain.Collection {
	for _, c := range s.list {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CreateOptions carries the optional fields accepted at creation.
type CreateOptions struct {
	Color  string
	Tags   []string
	Pinned bool
}

// Add creates a collection and returns its id. The name must be non-empty
// after trimming; this is the only mutation that can be rejected.
func (s *Store) Add(name, description string, opts CreateOptions) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMs()
	c := &domain.Collection{
		ID:          xid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Items:       []int{},
		CreatedAt:   now,
		UpdatedAt:   now,
		Color:       opts.Color,
		Pinned:      opts.Pinned,
	}
	if len(opts.Tags) > 0 {
		c.Tags = append([]string(nil), opts.Tags...)
	}

	s.list = append(s.list, c)
	s.persistLocked()

	pinnedVal := 0
	if c.Pinned {
		pinnedVal = 1
	}
	s.emit("create", c.Name, pinnedVal)
	return c.ID, nil
}

// Remove deletes a collection. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.list {
		if c.ID == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			s.persistLocked()
			s.emit("delete", c.Name, 0)
			return
		}
	}
}

// Update replaces the stored entry matching updated.ID. The id and creation
// timestamp are immutable and UpdatedAt is forced to now regardless of the
// caller-supplied values. Unknown ids are a no-op.
func (s *Store) Update(updated domain.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.list {
		if c.ID != updated.ID {
			continue
		}
		next := updated.Clone()
		next.CreatedAt = c.CreatedAt
		next.UpdatedAt = s.nowMs()
		if next.Items == nil {
			next.Items = []int{}
		}
		s.list[i] = next
		s.persistLocked()
		s.emit("update", next.Name, 0)
		return
	}
}

// Get returns a copy of the collection, or false when the id is unknown.
func (s *Store) Get(id string) (*domain.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c := s.findLocked(id); c != nil {
		return c.Clone(), true
	}
	return nil, false
}

// TogglePin flips the pinned flag. Unknown ids are a no-op.
func (s *Store) TogglePin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(id)
	if c == nil {
		return
	}
	c.Pinned = !c.Pinned
	c.UpdatedAt = s.nowMs()
	s.persistLocked()

	action := "pin"
	if !c.Pinned {
		action = "unpin"
	}
	s.emit(action, c.Name, 0)
}

// Duplicate copies a collection under a fresh id with the name suffixed
// " (Copy)" and all sharing state reset. It returns the new id, or the
// empty string when the source does not exist.
func (s *Store) Duplicate(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.findLocked(id)
	if src == nil {
		s.log.Warn("duplicate of unknown collection", logger.String("id", id))
		return ""
	}

	now := s.nowMs()
	cp := src.Clone()
	cp.ID = xid.New().String()
	cp.Name = src.Name + " (Copy)"
	cp.CreatedAt = now
	cp.UpdatedAt = now
	cp.IsPublic = false
	cp.ShareID = ""
	cp.ShareExpiry = 0
	cp.SharePassword = ""

	s.list = append(s.list, cp)
	s.persistLocked()
	s.emit("duplicate", src.Name, len(src.Items))
	return cp.ID
}
