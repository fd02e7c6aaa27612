// Package stock finds background footage for a reel. The search collaborator
// is specified only at its interface boundary; the production implementation
// talks to the Pexels video API.
package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Searcher finds stock footage URLs for a query. Implementations return the
// best matches first; callers typically consume only the first result.
type Searcher interface {
	Search(ctx context.Context, query string, minDuration time.Duration, limit int) ([]string, error)
}

const pexelsBaseURL = "https://api.pexels.com/videos"

// PexelsClient searches the Pexels video library.
type PexelsClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Searcher = (*PexelsClient)(nil)

// NewPexelsClient creates a Pexels search client.
func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		apiKey:  apiKey,
		baseURL: pexelsBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type pexelsSearchResponse struct {
	Videos []struct {
		Duration   int `json:"duration"`
		VideoFiles []struct {
			Link    string `json:"link"`
			Quality string `json:"quality"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Search returns download links for videos at least minDuration long, best
// match first, at most limit entries.
func (c *PexelsClient) Search(ctx context.Context, query string, minDuration time.Duration, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", fmt.Sprintf("%d", limit))

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pexels request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pexels returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode pexels response: %w", err)
	}

	minSeconds := int(minDuration / time.Second)
	var links []string
	for _, video := range parsed.Videos {
		if video.Duration < minSeconds {
			continue
		}
		for _, file := range video.VideoFiles {
			if file.Quality == "hd" && file.Link != "" {
				links = append(links, file.Link)
				break
			}
		}
		if len(links) >= limit {
			break
		}
	}

	log.Printf("[Pexels] query %q matched %d videos", query, len(links))
	return links, nil
}
