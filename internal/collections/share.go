package collections

import (
	"github.com/rs/xid"

	"github.com/toolshelf/shelf/internal/domain"
)

const msPerDay = 24 * 60 * 60 * 1000

// ShareOptions tunes a publish call.
type ShareOptions struct {
	// ExpiryDays sets a share deadline of now + ExpiryDays. Zero means
	// the share never expires.
	ExpiryDays int

	// Password gates the shared page behind a plaintext comparison.
	// This is a convenience veil, not access control: the secret is
	// stored and compared in the clear.
	Password string
}

// MakePublic publishes a collection and returns its share id, or the empty
// string when the collection does not exist. An existing share id is reused
// so links distributed before a private interlude keep working; expiry and
// password are reset from opts on every publish.
func (s *Store) MakePublic(id string, opts ShareOptions) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(id)
	if c == nil {
		return ""
	}

	if c.ShareID == "" {
		c.ShareID = xid.New().String()
	}

	now := s.nowMs()
	c.ShareExpiry = 0
	if opts.ExpiryDays > 0 {
		c.ShareExpiry = now + int64(opts.ExpiryDays)*msPerDay
	}
	c.SharePassword = opts.Password
	c.IsPublic = true
	c.UpdatedAt = now
	s.persistLocked()

	expiryVal := 0
	if c.ShareExpiry != 0 {
		expiryVal = 1
	}
	s.emit("make_public", c.Name, expiryVal)
	return c.ShareID
}

// MakePrivate unpublishes a collection. The share id, expiry and password
// are retained so a later publish can restore them.
func (s *Store) MakePrivate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(id)
	if c == nil {
		return
	}
	c.IsPublic = false
	c.UpdatedAt = s.nowMs()
	s.persistLocked()
	s.emit("make_private", c.Name, 0)
}

// ShareLink returns the shareable URL for a collection. It reports false
// when the collection is missing, private, or has no share id. A passed
// expiry also reports false and lazily flips the collection private so
// subsequent reads observe the revocation.
func (s *Store) ShareLink(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(id)
	if c == nil || !c.IsPublic || c.ShareID == "" {
		return "", false
	}

	if c.ShareExpired(s.nowMs()) {
		c.IsPublic = false
		s.persistLocked()
		return "", false
	}

	url := s.baseURL + "/collection/" + c.ShareID
	if c.SharePassword != "" {
		url += "?protected=true"
	}
	return url, true
}

// GetByShareID returns a copy of the publicly shared collection with the
// given share id. Private, unknown, and expired shares report false;
// expired ones are flipped private on the way out.
func (s *Store) GetByShareID(shareID string) (*domain.Collection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.list {
		if c.ShareID != shareID || !c.IsPublic {
			continue
		}
		if c.ShareExpired(s.nowMs()) {
			c.IsPublic = false
			s.persistLocked()
			return nil, false
		}
		return c.Clone(), true
	}
	return nil, false
}

// RevokeExpired flips every public collection whose share deadline has
// passed to private and returns how many were revoked. The lazy correction
// in ShareLink remains the normative path; this keeps stored state
// converged even when nobody asks for a link.
func (s *Store) RevokeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMs()
	revoked := 0
	for _, c := range s.list {
		if c.IsPublic && c.ShareExpired(now) {
			c.IsPublic = false
			revoked++
		}
	}
	if revoked > 0 {
		s.persistLocked()
		s.emit("share_expired", "", revoked)
	}
	return revoked
}
