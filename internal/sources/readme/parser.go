package readme

import (
	"regexp"
	"strings"

	"github.com/toolshelf/shelf/internal/domain"
)

// markdownLink matches [text](url)
var markdownLink = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)

// linkPrefix strips a literal "Link:" prefix from bare URLs
var linkPrefix = regexp.MustCompile(`(?i)^Link:?\s*`)

// Parse extracts catalog resources from an awesome-list README.
//
// The document is organized as "## Category" headings followed by
// five-column tables (leading pipe, name, description, link, date).
// Rows before the first heading, header rows and separator rows are
// skipped. IDs are assigned sequentially in document order starting
// at 1, so a row keeps its id across reloads as long as nothing above
// it moves.
func Parse(content string) []*domain.Resource {
	var resources []*domain.Resource
	currentCategory := ""
	id := 1

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## ") {
			currentCategory = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			continue
		}

		if currentCategory == "" || !strings.HasPrefix(line, "| ") || !strings.Contains(line, " | ") {
			continue
		}
		if strings.Contains(line, "Name | Description") {
			continue
		}

		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		// Expect 5 columns: empty, name, description, link, date
		if len(parts) < 5 {
			continue
		}

		name := parts[1]
		description := parts[2]
		url := extractURL(parts[3])
		date := parts[4]
		if date == "" {
			date = domain.DateUnknown
		}

		if name == "" || name == "Name" || isSeparator(name) || url == "" || url == "Link" {
			continue
		}

		resources = append(resources, &domain.Resource{
			ID:          id,
			Name:        name,
			Description: description,
			URL:         url,
			Category:    currentCategory,
			Date:        date,
		})
		id++
	}

	return resources
}

// extractURL pulls the target out of a markdown link, falling back to
// the cell text with any "Link:" prefix removed.
func extractURL(cell string) string {
	if m := markdownLink.FindStringSubmatch(cell); m != nil && m[2] != "" {
		return m[2]
	}
	return strings.TrimSpace(linkPrefix.ReplaceAllString(cell, ""))
}

// isSeparator reports whether a cell is a markdown table divider like
// "---" or ":---:".
func isSeparator(cell string) bool {
	trimmed := strings.Trim(cell, ":- ")
	return trimmed == "" && strings.Contains(cell, "-")
}
