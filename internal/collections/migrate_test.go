package collections

import (
	"context"
	"testing"

	"github.com/toolshelf/shelf/internal/events"
	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
)

const testNowMs = int64(1_700_000_000_000)

func TestDecodeCorruptPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "%%%garbage%%%"},
		{"wrong top-level type", `{"oops": true}`},
		{"truncated", `[{"id":"a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, notes := decode([]byte(tt.raw), testNowMs)
			if len(list) != 0 {
				t.Errorf("decode(%q) = %d collections, want 0", tt.raw, len(list))
			}
			if len(notes) == 0 {
				t.Error("corrupt payload should leave a note")
			}
		})
	}
}

func TestDecodeDefaultsMissingFields(t *testing.T) {
	raw := `[{"name":"Old Format"}]`

	list, _ := decode([]byte(raw), testNowMs)
	if len(list) != 1 {
		t.Fatalf("decoded %d collections, want 1", len(list))
	}

	c := list[0]
	if c.ID == "" {
		t.Error("missing id not generated")
	}
	if c.Name != "Old Format" {
		t.Errorf("Name = %q", c.Name)
	}
	if c.Items == nil || len(c.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil", c.Items)
	}
	if c.CreatedAt != testNowMs || c.UpdatedAt != testNowMs {
		t.Errorf("timestamps = %d/%d, want %d", c.CreatedAt, c.UpdatedAt, testNowMs)
	}
	if c.IsPublic || c.Pinned || c.ShareID != "" || c.Color != "" {
		t.Error("optional fields should default to zero values")
	}
}

func TestDecodeMissingName(t *testing.T) {
	raw := `[{"id":"abc"},{"id":"def","name":"   "}]`

	list, notes := decode([]byte(raw), testNowMs)
	if len(list) != 2 {
		t.Fatalf("decoded %d collections, want 2", len(list))
	}
	for _, c := range list {
		if c.Name != UntitledName {
			t.Errorf("Name = %q, want %q", c.Name, UntitledName)
		}
	}
	if len(notes) != 2 {
		t.Errorf("notes = %v, want one per renamed record", notes)
	}
}

func TestDecodeInvalidItems(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"items is a string", `[{"id":"a","name":"x","items":"nope"}]`},
		{"items is an object", `[{"id":"a","name":"x","items":{"0":1}}]`},
		{"items holds strings", `[{"id":"a","name":"x","items":["1","2"]}]`},
		{"items is null", `[{"id":"a","name":"x","items":null}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, _ := decode([]byte(tt.raw), testNowMs)
			if len(list) != 1 {
				t.Fatalf("decoded %d collections, want 1", len(list))
			}
			if got := list[0].Items; got == nil || len(got) != 0 {
				t.Errorf("Items = %v, want coerced empty sequence", got)
			}
		})
	}
}

func TestDecodeDeduplicatesItems(t *testing.T) {
	raw := `[{"id":"a","name":"x","items":[1,2,1,3,2]}]`

	list, notes := decode([]byte(raw), testNowMs)
	got := list[0].Items
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Items[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if len(notes) == 0 {
		t.Error("dedup should leave a note")
	}
}

func TestDecodeRepairsInvariants(t *testing.T) {
	raw := `[
		{"id":"a","name":"x","createdAt":2000,"updatedAt":1000},
		{"id":"b","name":"y","isPublic":true}
	]`

	list, _ := decode([]byte(raw), testNowMs)
	if len(list) != 2 {
		t.Fatalf("decoded %d collections, want 2", len(list))
	}

	if list[0].UpdatedAt < list[0].CreatedAt {
		t.Errorf("updatedAt %d still before createdAt %d", list[0].UpdatedAt, list[0].CreatedAt)
	}
	if list[1].IsPublic {
		t.Error("public collection without shareId should be made private")
	}
}

func TestDecodeSkipsBrokenRecordKeepsRest(t *testing.T) {
	raw := `[{"id":"good","name":"Keep"},{"id":42,"name":17},{"id":"also","name":"Kept"}]`

	list, notes := decode([]byte(raw), testNowMs)
	if len(list) != 2 {
		t.Fatalf("decoded %d collections, want 2", len(list))
	}
	if list[0].Name != "Keep" || list[1].Name != "Kept" {
		t.Errorf("wrong survivors: %q, %q", list[0].Name, list[1].Name)
	}
	if len(notes) == 0 {
		t.Error("skipped record should leave a note")
	}
}

func TestDecodePreservesFullRecord(t *testing.T) {
	raw := `[{
		"id": "c1",
		"name": "DevOps",
		"description": "tools",
		"items": [4, 8],
		"createdAt": 1000,
		"updatedAt": 2000,
		"isPublic": true,
		"shareId": "s1",
		"shareExpiry": 9999999999999,
		"sharePassword": "pw",
		"color": "#123456",
		"tags": ["infra"],
		"pinned": true
	}]`

	list, notes := decode([]byte(raw), testNowMs)
	if len(notes) != 0 {
		t.Errorf("clean record produced notes: %v", notes)
	}
	c := list[0]
	if c.ID != "c1" || c.Name != "DevOps" || c.Description != "tools" {
		t.Errorf("basic fields mangled: %+v", c)
	}
	if len(c.Items) != 2 || c.Items[0] != 4 || c.Items[1] != 8 {
		t.Errorf("Items = %v", c.Items)
	}
	if !c.IsPublic || c.ShareID != "s1" || c.ShareExpiry != 9999999999999 || c.SharePassword != "pw" {
		t.Errorf("share fields mangled: %+v", c)
	}
	if c.Color != "#123456" || len(c.Tags) != 1 || !c.Pinned {
		t.Errorf("organization fields mangled: %+v", c)
	}
}

func TestLoadMigratesLegacyPayload(t *testing.T) {
	adapter := storage.NewMemory()
	legacy := `[{"name":"Saved Long Ago","items":[7,7,9]},{"id":"keep","name":""}]`
	if err := adapter.Set(context.Background(), DefaultStorageKey, []byte(legacy)); err != nil {
		t.Fatalf("seeding storage failed: %v", err)
	}

	store := NewStore(adapter, &events.Recorder{}, logger.New("error", false), Options{})

	all := store.All()
	if len(all) != 2 {
		t.Fatalf("loaded %d collections, want 2", len(all))
	}
	if all[0].Name != "Saved Long Ago" || len(all[0].Items) != 2 {
		t.Errorf("first = %q items=%v", all[0].Name, all[0].Items)
	}
	if all[1].Name != UntitledName {
		t.Errorf("second name = %q, want %q", all[1].Name, UntitledName)
	}
}

func TestLoadCorruptStorageStartsEmpty(t *testing.T) {
	adapter := storage.NewMemory()
	_ = adapter.Set(context.Background(), DefaultStorageKey, []byte("definitely not json"))

	store := NewStore(adapter, &events.Recorder{}, logger.New("error", false), Options{})
	if got := store.Count(); got != 0 {
		t.Errorf("Count = %d after corrupt load, want 0", got)
	}

	// The store must remain fully usable.
	if _, err := store.Add("Recovered", "", CreateOptions{}); err != nil {
		t.Errorf("Add after corrupt load failed: %v", err)
	}
}
