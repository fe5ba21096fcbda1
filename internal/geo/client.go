package geo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/floraworks/floraorders/internal/models"
)

var ErrAddressNotFound = errors.New("address not found")

// Point is a resolved geographic coordinate
type Point struct {
	Latitude  float64
	Longitude float64
}

// Client represents HTTP client for geocoder requests
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new geocoder Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type geocodeResponse struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve resolves a delivery address to coordinates.
// The geocoder speaks the Nominatim search contract: lat/lon come back as
// strings in a JSON array, an empty array means no match.
func (c *Client) Resolve(ctx context.Context, address string) (*Point, error) {
	// GET /search?q=<address>&format=json&limit=1
	u, err := url.JoinPath(c.baseURL, "search")
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var results []geocodeResponse
		if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, ErrAddressNotFound
		}

		lat, err := strconv.ParseFloat(results[0].Lat, 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(results[0].Lon, 64)
		if err != nil {
			return nil, err
		}

		return &Point{Latitude: lat, Longitude: lon}, nil
	case http.StatusNotFound:
		return nil, ErrAddressNotFound
	default:
		return nil, models.ErrInternalError
	}
}
