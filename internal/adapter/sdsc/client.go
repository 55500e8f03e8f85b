package sdsc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jihoon0306/onyak-ai-rail/internal/domain"
	"github.com/jihoon0306/onyak-ai-rail/internal/observability"
)

// Credential variants, tried in this order.
const (
	VariantRaw     = "raw"     // key sent as configured
	VariantEncoded = "encoded" // key percent-encoded once more before query encoding
)

const (
	upstreamLabel = "registry"
	pageSize      = "1000"
	successCode   = "00"
)

var variants = []string{VariantRaw, VariantEncoded}

// Client implements domain.Registry against the sdsc2 storeListInRadius operation.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a registry client. A zero timeout leaves outbound calls
// unbounded.
func NewClient(baseURL, serviceKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// HasCredential reports whether a service key was configured.
func (c *Client) HasCredential() bool {
	return c.serviceKey != ""
}

// Query lists stores within radiusMeters of at. Each credential variant is
// tried back to back; the first success wins.
func (c *Client) Query(ctx context.Context, at domain.Coordinate, radiusMeters int) (domain.RegistryResult, error) {
	if !c.HasCredential() {
		return domain.RegistryResult{}, &domain.ConfigurationError{Key: domain.CredentialKey}
	}

	start := time.Now()
	defer func() {
		c.metrics.UpstreamDuration.WithLabelValues(upstreamLabel).Observe(time.Since(start).Seconds())
	}()

	var last *domain.RegistryError
	for _, variant := range variants {
		result, failure := c.attempt(ctx, variant, c.params(variant, at, radiusMeters))
		if failure == nil {
			c.metrics.RegistryVariantAttempts.WithLabelValues(variant, "success").Inc()
			if len(result.Items) == 0 {
				c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "empty").Inc()
			} else {
				c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "success").Inc()
			}
			return result, nil
		}

		c.metrics.RegistryVariantAttempts.WithLabelValues(variant, "error").Inc()
		c.logger.Warn("registry variant failed",
			"variant", variant,
			"reason", failure.Reason,
			"status", failure.Attempt.Status,
			"url", failure.Attempt.URL,
		)
		last = failure
	}

	c.metrics.UpstreamRequests.WithLabelValues(upstreamLabel, "error").Inc()
	return domain.RegistryResult{}, last
}

// params builds the query for one variant. The registry names longitude cx
// and latitude cy.
func (c *Client) params(variant string, at domain.Coordinate, radiusMeters int) url.Values {
	key := c.serviceKey
	if variant == VariantEncoded {
		key = url.QueryEscape(key)
	}
	return url.Values{
		"serviceKey": {key},
		"radius":     {strconv.Itoa(radiusMeters)},
		"cx":         {strconv.FormatFloat(at.Lng, 'f', -1, 64)},
		"cy":         {strconv.FormatFloat(at.Lat, 'f', -1, 64)},
		"numOfRows":  {pageSize},
		"pageNo":     {"1"},
		"_type":      {"json"},
	}
}

func (c *Client) attempt(ctx context.Context, variant string, params url.Values) (domain.RegistryResult, *domain.RegistryError) {
	attempt := domain.Attempt{Variant: variant, URL: redactedURL(c.baseURL, params)}
	fail := func(reason string, err error) (domain.RegistryResult, *domain.RegistryError) {
		return domain.RegistryResult{}, &domain.RegistryError{Reason: reason, Attempt: attempt, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fail("sdsc2_request", stripURL(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail("sdsc2_transport", stripURL(err))
	}
	defer resp.Body.Close()
	attempt.Status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fail(fmt.Sprintf("sdsc2_http_%d", resp.StatusCode), nil)
	}

	// Unregistered keys are often answered with an XML error document and
	// status 200, which surfaces here as a decode failure.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return fail("sdsc2_decode", err)
	}

	if code := resultCode(body); code != "" && code != successCode {
		return fail("sdsc2_code_"+code, nil)
	}

	return domain.RegistryResult{Items: extractItems(body), Attempt: attempt}, nil
}

// redactedURL renders the request URL with the credential replaced.
func redactedURL(baseURL string, params url.Values) string {
	safe := make(url.Values, len(params))
	for k, v := range params {
		safe[k] = v
	}
	safe.Set("serviceKey", domain.RedactedValue)
	return baseURL + "?" + safe.Encode()
}

// stripURL drops the request URL from transport errors so the credential
// cannot leak through err.Error().
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}
