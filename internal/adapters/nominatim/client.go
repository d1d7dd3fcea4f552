// Package nominatim is a forward geocoder backed by the OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/pkg/metrics"
	"github.com/samirrijal/geotz/internal/pkg/telemetry"
)

const (
	DefaultEndpoint = "https://nominatim.openstreetmap.org/search"

	maxBodyBytes  = 1 << 20
	maxErrorBytes = 512
)

// Config configures the client.
type Config struct {
	Endpoint       string
	UserAgent      string
	Referer        string
	AcceptLanguage string
	// Timeout bounds one HTTP exchange. Zero leaves it to the caller's context.
	Timeout time.Duration
	// RatePerSecond throttles outbound requests; zero disables throttling.
	RatePerSecond float64
	Burst         int
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nominatim: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client implements ports.Geocoder.
type Client struct {
	endpoint *url.URL
	cfg      Config
	http     *http.Client
	limiter  *rate.Limiter
}

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("nominatim: invalid endpoint %q", cfg.Endpoint)
	}
	// The usage policy rejects requests without an identifying agent.
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, errors.New("nominatim: user agent is required")
	}

	c := &Client{
		endpoint: u,
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return c, nil
}

// record is one element of the jsonv2 response array.
type record struct {
	PlaceID     int64             `json:"place_id"`
	Licence     string            `json:"licence"`
	OSMType     string            `json:"osm_type"`
	OSMID       int64             `json:"osm_id"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Category    string            `json:"category"`
	Type        string            `json:"type"`
	PlaceRank   int               `json:"place_rank"`
	Importance  float64           `json:"importance"`
	AddressType string            `json:"addresstype"`
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	BoundingBox []string          `json:"boundingbox"`
}

func (r record) toPlace() domain.Place {
	return domain.Place{
		PlaceID:     r.PlaceID,
		Licence:     r.Licence,
		OSMType:     r.OSMType,
		OSMID:       r.OSMID,
		Lat:         r.Lat,
		Lon:         r.Lon,
		Category:    r.Category,
		Type:        r.Type,
		PlaceRank:   r.PlaceRank,
		Importance:  r.Importance,
		AddressType: r.AddressType,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Address:     r.Address,
		BoundingBox: r.BoundingBox,
		Bounds:      parseBoundingBox(r.BoundingBox),
	}
}

// parseBoundingBox reads Nominatim's [min_lat, max_lat, min_lon, max_lon] strings.
func parseBoundingBox(raw []string) *domain.Bounds {
	if len(raw) != 4 {
		return nil
	}
	south, err1 := domain.ParseCoordinate(raw[0], raw[2])
	north, err2 := domain.ParseCoordinate(raw[1], raw[3])
	if err1 != nil || err2 != nil {
		return nil
	}
	return &domain.Bounds{MinLat: south.Lat, MinLon: south.Lon, MaxLat: north.Lat, MaxLon: north.Lon}
}

// Search geocodes query and returns at most one place, best match first.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Place, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanGeocode)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrQuery, query))

	places, err := c.search(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int(telemetry.AttrResultCount, len(places)))
	return places, nil
}

func (c *Client) search(ctx context.Context, query string) ([]domain.Place, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.GeocodeErrors.WithLabelValues("rate_limit").Inc()
			return nil, fmt.Errorf("nominatim: rate limit wait: %w", err)
		}
	}

	u := *c.endpoint
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("Referer", c.cfg.Referer)
	}
	if c.cfg.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", c.cfg.AcceptLanguage)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GeocodeErrors.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("nominatim: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GeocodeErrors.WithLabelValues("status").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var records []record
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&records); err != nil {
		metrics.GeocodeErrors.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("nominatim: decode response: %w", err)
	}

	places := make([]domain.Place, 0, len(records))
	for _, r := range records {
		places = append(places, r.toPlace())
	}
	return places, nil
}
