package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jihoon0306/onyak-ai-rail/internal/domain"
	"github.com/jihoon0306/onyak-ai-rail/internal/observability"
)

const upstreamLabel = "geocode"

// Client implements domain.Resolver using a Nominatim search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. A zero timeout leaves outbound calls
// unbounded.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve returns the top-1 match for query.
func (c *Client) Resolve(ctx context.Context, query string) (domain.Coordinate, error) {
	params := url.Values{
		"q":              {query},
		"format":         {"json"},
		"limit":          {"1"},
		"addressdetails": {"1"},
	}

	start := time.Now()
	coord, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.UpstreamDuration.WithLabelValues(upstreamLabel).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "success").Inc()
	case domain.ReasonOf(err) == domain.ErrNoMatch:
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "empty").Inc()
	default:
		c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
	}
	return coord, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Coordinate{}, &domain.ResolutionError{Reason: "geocode_request", Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, &domain.ResolutionError{Reason: "geocode_transport", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("geocoder returned non-success status", "status", resp.StatusCode)
		return domain.Coordinate{}, domain.ResolutionHTTPError(resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinate{}, &domain.ResolutionError{Reason: "geocode_decode", Status: resp.StatusCode, Err: err}
	}
	if len(places) == 0 {
		return domain.Coordinate{}, &domain.ResolutionError{Reason: domain.ErrNoMatch, Status: resp.StatusCode}
	}

	top := places[0]
	lat, err := parseDegrees(top.Lat)
	if err != nil {
		return domain.Coordinate{}, &domain.ResolutionError{Reason: "geocode_decode", Status: resp.StatusCode, Err: fmt.Errorf("lat: %w", err)}
	}
	lng, err := parseDegrees(top.Lon)
	if err != nil {
		return domain.Coordinate{}, &domain.ResolutionError{Reason: "geocode_decode", Status: resp.StatusCode, Err: fmt.Errorf("lon: %w", err)}
	}

	return domain.Coordinate{Name: top.DisplayName, Lat: lat, Lng: lng}, nil
}

// parseDegrees accepts the decimal string Nominatim emits as well as bare numbers.
func parseDegrees(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// Nominatim API response types.

type place struct {
	DisplayName string          `json:"display_name"`
	Lat         json.RawMessage `json:"lat"` // decimal string
	Lon         json.RawMessage `json:"lon"`
}
