package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GeocodeClient resolves free-form addresses to coordinates via the external
// geocoding provider.
type GeocodeClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewGeocodeClient creates a geocoding client with a sane request timeout.
func NewGeocodeClient(baseURL, apiKey string) *GeocodeClient {
	return &GeocodeClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: defaultHTTPClient(),
	}
}

// Coordinates is the resolved location for a queried address.
type Coordinates struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Query resolves a single address. The provider returns its best match.
func (c *GeocodeClient) Query(ctx context.Context, address string) (Coordinates, error) {
	params := url.Values{}
	params.Set("address", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/geocode?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "KakaoAK "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var coords Coordinates
	if err := json.NewDecoder(resp.Body).Decode(&coords); err != nil {
		return Coordinates{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	return coords, nil
}
