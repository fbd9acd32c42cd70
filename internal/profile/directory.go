package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// DirectoryClient fetches profiles from the company directory's JSON API.
type DirectoryClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewDirectoryClient(baseURL, token string) *DirectoryClient {
	return &DirectoryClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DirectoryClient) FetchProfile(ctx context.Context, platformUserID string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", d.baseURL, url.PathEscape(platformUserID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory lookup for %s: %w", platformUserID, err)
	}
	defer resp.Body.Close()

	// A user the directory does not know yet is an empty profile, not an
	// error: every field is simply "not present".
	if resp.StatusCode == http.StatusNotFound {
		return &Profile{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory lookup for %s: unexpected status %d", platformUserID, resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode directory profile: %w", err)
	}
	return &p, nil
}

// StubSource is used when no directory is configured. It returns empty
// profiles and logs the lookup so local runs remain observable.
type StubSource struct{}

func NewStubSource() *StubSource {
	return &StubSource{}
}

func (s *StubSource) FetchProfile(ctx context.Context, platformUserID string) (*Profile, error) {
	log.Printf("📇 [StubDirectory] No directory configured, returning empty profile for %s", platformUserID)
	return &Profile{}, nil
}
