// Command lookup runs a single trade-area lookup from the command line and
// prints the JSON payload the API would return. Configuration is read the
// same way as the server (.env, TA_CONFIG, TA_* variables).
//
// Usage:
//
//	go run ./cmd/lookup -q "강남역" -radius 700 -debug
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/jihoon0306/onyak-ai-rail/internal/adapter/nominatim"
	"github.com/jihoon0306/onyak-ai-rail/internal/adapter/sdsc"
	"github.com/jihoon0306/onyak-ai-rail/internal/config"
	"github.com/jihoon0306/onyak-ai-rail/internal/observability"
	"github.com/jihoon0306/onyak-ai-rail/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	query := flag.String("q", "", "free-text place query")
	radius := flag.Int("radius", 0, "search radius in meters (default 500, clamped to 100..1200)")
	debug := flag.Bool("debug", false, "include diagnostic fields")
	verbose := flag.Bool("v", false, "debug logs to stderr")
	flag.Parse()

	if code := run(*query, *radius, *debug, *verbose); code != 0 {
		os.Exit(code)
	}
}

func run(query string, radius int, debug, verbose bool) int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(
		nominatim.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.UpstreamTimeout, metrics, logger),
		sdsc.NewClient(cfg.RegistryURL, cfg.ServiceKey, cfg.UpstreamTimeout, metrics, logger),
		nil,
		clockwork.NewRealClock(),
		logger,
		metrics,
	)

	req := pipeline.Request{Query: query, Debug: debug}
	if radius != 0 {
		req.Radius = strconv.Itoa(radius)
	}
	resp := p.Lookup(context.Background(), req)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp.Body); err != nil {
		fmt.Fprintln(os.Stderr, "encode:", err)
		return 1
	}

	if resp.Stage == pipeline.StageFallback {
		fmt.Fprintln(os.Stderr, "served demo fallback")
	}
	if resp.Status != 200 {
		return 2
	}
	return 0
}
