package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tucancha/court-booking/internal/observability"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Client geocodes free-text addresses against a Nominatim-compatible
// endpoint. No API key and no rate-limit headroom is assumed; callers get
// nil on any failure or empty result.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     observability.Logger
}

func NewClient(baseURL string, logger observability.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Geocode resolves an address to its first matching coordinate pair, or
// nil when nothing matches or the service misbehaves.
func (c *Client) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", address)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "TuCancha App")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("geocoding request failed", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Error("geocoding failed")
		return nil, nil
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		c.logger.Error("geocoding response decode failed", err)
		return nil, nil
	}
	if len(results) == 0 {
		c.logger.WithField("address", address).Warn("no coordinates found for address")
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, nil
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, nil
	}
	return &Coordinates{Lat: lat, Lng: lng}, nil
}
