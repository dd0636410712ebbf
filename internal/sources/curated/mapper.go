package curated

import (
	"fmt"

	"github.com/toolshelf/shelf/internal/domain"
)

// Mapper converts curated config entries to domain.Resource values
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts a Config to resources. IDs are assigned sequentially
// starting at nextID so curated entries slot in after the primary
// catalog without colliding with its ids.
func (m *Mapper) Map(config Config, nextID int) ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0)
	id := nextID

	for _, category := range config {
		for categoryName, entries := range category {
			for _, entry := range entries {
				// Skip entries without the two required fields
				if entry.Name == "" || entry.URL == "" {
					continue
				}

				date := entry.Date
				if date == "" {
					date = domain.DateUnknown
				}

				resources = append(resources, &domain.Resource{
					ID:          id,
					Name:        entry.Name,
					Description: entry.Description,
					URL:         entry.URL,
					Category:    categoryName,
					Date:        date,
				})
				id++
			}
		}
	}

	if len(resources) == 0 {
		return nil, fmt.Errorf("no valid resources found in curated config")
	}

	return resources, nil
}
