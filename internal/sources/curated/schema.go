package curated

// Entry represents a single curated resource in the YAML
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	URL         string `yaml:"url"`
	Date        string `yaml:"date,omitempty"`
}

// Category groups entries under a category name.
// The YAML structure is: - CategoryName: [{ name, description, url, date }]
type Category map[string][]Entry

// Config is the root structure for the curated resources file
type Config []Category
