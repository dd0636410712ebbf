package domain

// Collection represents a user-defined named group of catalog resources.
//
// Collections are the single mutable entity owned by this service. They are
// persisted as one JSON document (the full list) under a single storage key,
// so the struct's JSON field names are a compatibility contract with payloads
// written by earlier versions.
type Collection struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, minted at creation.
	// Never reused, never changes.
	ID string `json:"id"`

	// ─────────────────────────────
	// User-facing description
	// ─────────────────────────────

	// Name is required and non-empty after trimming.
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description"`

	// ─────────────────────────────
	// Membership
	// ─────────────────────────────

	// Items holds resource ids in add order. Duplicates are forbidden;
	// the add operations enforce uniqueness since order still matters.
	Items []int `json:"items"`

	// ─────────────────────────────
	// Timestamps (unix milliseconds)
	// ─────────────────────────────

	// CreatedAt is set once at creation.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is refreshed on every mutation except reordering.
	// Always >= CreatedAt.
	UpdatedAt int64 `json:"updatedAt"`

	// ─────────────────────────────
	// Sharing
	// ─────────────────────────────

	// IsPublic is true only while a share link is valid and unexpired.
	IsPublic bool `json:"isPublic,omitempty"`

	// ShareID is minted the first time the collection is published and
	// survives private→public cycles so distributed links keep working.
	ShareID string `json:"shareId,omitempty"`

	// ShareExpiry is a unix-ms deadline. Once past, readers must treat
	// the collection as private regardless of the stored IsPublic.
	ShareExpiry int64 `json:"shareExpiry,omitempty"`

	// SharePassword is a plaintext comparison secret. This is a cosmetic
	// gate, not access control: anyone with storage access can read it.
	SharePassword string `json:"sharePassword,omitempty"`

	// ─────────────────────────────
	// Organization
	// ─────────────────────────────

	// Color is free-form visual metadata.
	Color string `json:"color,omitempty"`

	// Tags are free-form labels, matched by collection search.
	Tags []string `json:"tags,omitempty"`

	// Pinned collections sort before unpinned ones in any listing.
	Pinned bool `json:"pinned,omitempty"`
}

// Contains reports whether the resource id is a member of the collection.
func (c *Collection) Contains(resourceID int) bool {
	for _, id := range c.Items {
		if id == resourceID {
			return true
		}
	}
	return false
}

// ShareExpired reports whether the share deadline has passed at nowMs.
// A zero ShareExpiry means the share never expires.
func (c *Collection) ShareExpired(nowMs int64) bool {
	return c.ShareExpiry != 0 && c.ShareExpiry < nowMs
}

// Clone returns a deep copy. Store accessors hand out clones so callers can
// never mutate store state behind the lock.
func (c *Collection) Clone() *Collection {
	cp := *c
	if c.Items != nil {
		cp.Items = make([]int, len(c.Items))
		copy(cp.Items, c.Items)
	}
	if c.Tags != nil {
		cp.Tags = make([]string, len(c.Tags))
		copy(cp.Tags, c.Tags)
	}
	return &cp
}
