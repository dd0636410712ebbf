package collections

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/xid"

	"github.com/toolshelf/shelf/internal/domain"
)

// rawCollection mirrors domain.Collection with the sequence fields kept
// raw so a record with a malformed items or tags value still migrates
// instead of failing wholesale.
type rawCollection struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Items         json.RawMessage `json:"items"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
	IsPublic      bool            `json:"isPublic"`
	ShareID       string          `json:"shareId"`
	ShareExpiry   int64           `json:"shareExpiry"`
	SharePassword string          `json:"sharePassword"`
	Color         string          `json:"color"`
	Tags          json.RawMessage `json:"tags"`
	Pinned        bool            `json:"pinned"`
}

// decode reconstructs well-formed collections from a persisted payload.
// The stored schema has evolved across versions, so every field is
// default-filled rather than required; the returned notes describe each
// correction for the load log. decode never fails: a payload that is not
// a JSON array at all yields an empty list, because losing saved
// collections is preferable to refusing to start.
func decode(raw []byte, nowMs int64) ([]*domain.Collection, []string) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return []*domain.Collection{}, []string{
			fmt.Sprintf("corrupt payload discarded: %v", err),
		}
	}

	list := make([]*domain.Collection, 0, len(records))
	var notes []string

	for i, rec := range records {
		var r rawCollection
		if err := json.Unmarshal(rec, &r); err != nil {
			notes = append(notes, fmt.Sprintf("record %d skipped: %v", i, err))
			continue
		}

		c := &domain.Collection{
			ID:            r.ID,
			Name:          strings.TrimSpace(r.Name),
			Description:   r.Description,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
			IsPublic:      r.IsPublic,
			ShareID:       r.ShareID,
			ShareExpiry:   r.ShareExpiry,
			SharePassword: r.SharePassword,
			Color:         r.Color,
			Pinned:        r.Pinned,
		}

		if c.ID == "" {
			c.ID = xid.New().String()
			notes = append(notes, fmt.Sprintf("record %d: missing id, generated %s", i, c.ID))
		}
		if c.Name == "" {
			c.Name = UntitledName
			notes = append(notes, fmt.Sprintf("record %d (%s): missing name", i, c.ID))
		}

		c.Items = decodeItems(r.Items, i, c.ID, &notes)
		c.Tags = decodeTags(r.Tags)

		if c.CreatedAt <= 0 {
			c.CreatedAt = nowMs
		}
		if c.UpdatedAt <= 0 {
			c.UpdatedAt = nowMs
		}
		if c.UpdatedAt < c.CreatedAt {
			c.UpdatedAt = c.CreatedAt
			notes = append(notes, fmt.Sprintf("record %d (%s): updatedAt before createdAt", i, c.ID))
		}

		// A public collection without a share id is unreachable anyway.
		if c.IsPublic && c.ShareID == "" {
			c.IsPublic = false
			notes = append(notes, fmt.Sprintf("record %d (%s): public without shareId, made private", i, c.ID))
		}

		list = append(list, c)
	}

	return list, notes
}

// decodeItems coerces the raw items value to a duplicate-free int slice.
func decodeItems(raw json.RawMessage, idx int, id string, notes *[]string) []int {
	items := []int{}
	if len(raw) == 0 || string(raw) == "null" {
		return items
	}

	var parsed []int
	if err := json.Unmarshal(raw, &parsed); err != nil {
		*notes = append(*notes, fmt.Sprintf("record %d (%s): invalid items, reset to empty", idx, id))
		return items
	}

	seen := make(map[int]bool, len(parsed))
	for _, rid := range parsed {
		if seen[rid] {
			continue
		}
		seen[rid] = true
		items = append(items, rid)
	}
	if len(items) != len(parsed) {
		*notes = append(*notes, fmt.Sprintf("record %d (%s): duplicate items removed", idx, id))
	}
	return items
}

// decodeTags coerces the raw tags value to a string slice, dropping it
// silently when malformed since tags are advisory metadata.
func decodeTags(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}
