package nominatim

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jihoon0306/onyak-ai-rail/internal/domain"
	"github.com/jihoon0306/onyak-ai-rail/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserAgent     = "onyak-ai-rail/test"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, testUserAgent, 5*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Resolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Gangnam Station", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "1", q.Get("limit"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `[{"place_id":1,"display_name":"강남역, 강남대로, 서울","lat":"37.4979462","lon":"127.0276206","address":{"city":"서울"}},{"display_name":"ignored","lat":"0","lon":"0"}]`)
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Resolve(context.Background(), "Gangnam Station")
	require.NoError(t, err)

	assert.Equal(t, "강남역, 강남대로, 서울", got.Name)
	assert.Equal(t, 37.4979462, got.Lat)
	assert.Equal(t, 127.0276206, got.Lng)
}

func TestClient_Resolve_EscapesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "역삼동 & 논현동?", r.URL.Query().Get("q"))
		assert.NotContains(t, r.URL.RawQuery, "&논현동")
		_, _ = io.WriteString(w, `[{"display_name":"x","lat":"1","lon":"2"}]`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "역삼동 & 논현동?")
	require.NoError(t, err)
}

func TestClient_Resolve_NumericCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"display_name":"x","lat":37.5,"lon":127.0}]`)
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinate{Name: "x", Lat: 37.5, Lng: 127.0}, got)
}

func TestClient_Resolve_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "NONEXISTENT")
	require.Error(t, err)

	var re *domain.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, domain.ErrNoMatch, re.Reason)
}

func TestClient_Resolve_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<html>blocked</html>`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "x")
	require.Error(t, err)

	var re *domain.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "geocode_http_403", re.Reason)
	assert.Equal(t, http.StatusForbidden, re.Status)
}

func TestClient_Resolve_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"error":"not an array"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "geocode_decode", domain.ReasonOf(err))
}

func TestClient_Resolve_BadLatitude(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"display_name":"x","lat":"north","lon":"127"}]`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "geocode_decode", domain.ReasonOf(err))
}

func TestClient_Resolve_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Resolve(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "geocode_transport", domain.ReasonOf(err))
}
