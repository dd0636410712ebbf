package domain

// DateUnknown is the literal used by the upstream README for entries
// without a date column value.
const DateUnknown = "Unknown"

// Resource is a single catalog entry parsed from the upstream README.
//
// Resources are read-only to this service: collections reference them by id
// but never own or mutate them. Ids are stable within one parse of the
// source (assigned in document order).
type Resource struct {
	// ID is unique and stable across a fetch session.
	ID int `json:"id"`

	// Name of the tool or link.
	Name string `json:"name"`

	// Description as written in the README table.
	Description string `json:"description"`

	// URL is the external link.
	URL string `json:"url"`

	// Category is the README section the entry was found under.
	Category string `json:"category"`

	// Date is an ISO date string or DateUnknown.
	Date string `json:"date"`
}
