package readme

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/toolshelf/shelf/internal/domain"
	"github.com/toolshelf/shelf/internal/utils"
)

const (
	fetchTimeout = 30 * time.Second
	maxBodySize  = 8 << 20 // 8 MiB, far beyond any plausible README
)

// Loader fetches the catalog README from a URL or a local file and
// parses it into resources. A file path takes precedence when both
// are set, which keeps local development off the network.
type Loader struct {
	url      string
	filePath string
	client   *http.Client
}

// NewLoader creates a new README loader.
func NewLoader(url, filePath string) *Loader {
	return &Loader{
		url:      url,
		filePath: filePath,
		client:   &http.Client{Timeout: fetchTimeout},
	}
}

// Load retrieves and parses the README.
func (l *Loader) Load(ctx context.Context) ([]*domain.Resource, error) {
	content, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	resources := Parse(content)
	if len(resources) == 0 {
		return nil, fmt.Errorf("no resources found in readme")
	}
	return resources, nil
}

func (l *Loader) fetch(ctx context.Context) (string, error) {
	if l.filePath != "" {
		data, err := os.ReadFile(l.filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read readme file: %w", err)
		}
		return string(data), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build readme request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch readme: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("readme fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read readme body: %w", err)
	}
	return string(data), nil
}
