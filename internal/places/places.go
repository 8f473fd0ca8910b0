// Package places looks up nearby points of interest (police stations by default)
// through the Geoapify Places API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"geofence-bknd/internal/apperr"
	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/metrics"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Station is one nearby place.
type Station struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	DistanceM any     `json:"distance_m"`
}

// Options configures the Geoapify client.
type Options struct {
	APIKey   string
	BaseURL  string // defaults to https://api.geoapify.com
	Category string
	RadiusM  int
	Limit    int
	Timeout  time.Duration
}

// Client wraps the Geoapify Places API with an optional cache.
type Client struct {
	opts       Options
	httpClient *http.Client
	cache      Cache
	logr       *logger.Logger
}

// NewClient creates a places client. cache may be nil.
func NewClient(opts Options, cache Cache, logr *logger.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.geoapify.com"
	}
	if opts.Category == "" {
		opts.Category = "service.police"
	}
	if opts.RadiusM <= 0 {
		opts.RadiusM = 5000
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if logr == nil {
		logr = logger.Nop()
	}
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		cache:      cache,
		logr:       logr,
	}
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties struct {
		Name      string   `json:"name"`
		Formatted string   `json:"formatted"`
		Distance  *float64 `json:"distance"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

// Nearby returns places of the configured category within the configured radius of (lat, lon).
func (c *Client) Nearby(ctx context.Context, lat, lon float64) ([]Station, error) {
	key := cacheKey(c.opts.Category, lat, lon)
	if c.cache != nil {
		stations, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.logr.Warn("places cache read failed", zap.Error(err))
		case ok:
			metrics.PlacesRequestsTotal.WithLabelValues("cache", "hit").Inc()
			return stations, nil
		default:
			metrics.PlacesRequestsTotal.WithLabelValues("cache", "miss").Inc()
		}
	}

	stations, err := c.fetch(ctx, lat, lon)
	if err != nil {
		metrics.PlacesRequestsTotal.WithLabelValues("provider", "error").Inc()
		return nil, err
	}
	metrics.PlacesRequestsTotal.WithLabelValues("provider", "ok").Inc()

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, stations); err != nil {
			c.logr.Warn("places cache write failed", zap.Error(err))
		}
	}
	return stations, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) ([]Station, error) {
	if c.opts.APIKey == "" {
		return nil, apperr.ExternalProvider(eris.New("GEOAPIFY_API_KEY not set"), "Failed to fetch from Geoapify")
	}

	q := url.Values{}
	q.Set("categories", c.opts.Category)
	q.Set("filter", fmt.Sprintf("circle:%g,%g,%d", lon, lat, c.opts.RadiusM))
	q.Set("limit", fmt.Sprintf("%d", c.opts.Limit))
	q.Set("apiKey", c.opts.APIKey)
	u := strings.TrimRight(c.opts.BaseURL, "/") + "/v2/places?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create request")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.PlacesDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, apperr.ExternalProvider(err, "Failed to fetch from Geoapify")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.ExternalProvider(
			eris.Errorf("geoapify returned HTTP %d", resp.StatusCode),
			"Failed to fetch from Geoapify",
		)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, apperr.ExternalProvider(err, "Failed to fetch from Geoapify")
	}

	stations := make([]Station, 0, len(fc.Features))
	for _, f := range fc.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		st := Station{
			Name:      f.Properties.Name,
			Address:   f.Properties.Formatted,
			Lon:       f.Geometry.Coordinates[0],
			Lat:       f.Geometry.Coordinates[1],
			DistanceM: "N/A",
		}
		if st.Name == "" {
			st.Name = "Unknown"
		}
		if f.Properties.Distance != nil {
			st.DistanceM = *f.Properties.Distance
		}
		stations = append(stations, st)
	}
	return stations, nil
}
