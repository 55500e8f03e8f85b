package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jihoon0306/onyak-ai-rail/internal/domain"
	"github.com/jihoon0306/onyak-ai-rail/internal/observability"
	"github.com/jonboulle/clockwork"
)

// EventPublisher hands completed lookups to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LookupEvent) error
}

// Stage names one step of a lookup.
type Stage string

// Lookup stages in execution order. Fallback is reachable from every stage
// between CheckingCredential and Aggregating.
const (
	StageValidating         Stage = "validating"
	StageCheckingCredential Stage = "checking_credential"
	StageResolving          Stage = "resolving"
	StageQuerying           Stage = "querying"
	StageAggregating        Stage = "aggregating"
	StageResponding         Stage = "responding"
	StageFallback           Stage = "fallback"
)

// Request carries the inbound lookup parameters as received.
type Request struct {
	Query  string
	Radius string
	Debug  bool
}

// Response is the rendered outcome of a lookup. Body is one of SummaryBody,
// FallbackBody or ErrorBody.
type Response struct {
	Status int
	Body   any
	Stage  Stage
}

// Pipeline orchestrates resolve, query and aggregate for one lookup.
type Pipeline struct {
	resolver  domain.Resolver
	registry  domain.Registry
	publisher EventPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	aggregate func([]domain.StoreRecord) domain.Summary
}

// New creates a Pipeline. publisher may be nil to disable event publishing.
func New(resolver domain.Resolver, registry domain.Registry, publisher EventPublisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		registry:  registry,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		aggregate: domain.Aggregate,
	}
}

// HasCredential reports whether the registry credential is configured.
func (p *Pipeline) HasCredential() bool {
	return p.registry.HasCredential()
}

// CheckReadiness returns an error while no registry credential is configured.
// Lookups are still answered, with demo data.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.registry.HasCredential() {
		return fmt.Errorf("%s is not configured", domain.CredentialKey)
	}
	return nil
}

// Lookup runs one request through the stages. Only a missing query yields a
// non-200 response; every upstream-class failure degrades to the demo payload.
func (p *Pipeline) Lookup(ctx context.Context, req Request) Response {
	// A blank query is rejected before the credential is looked at, so it is
	// a 400 even on a server with no key configured.
	query := strings.TrimSpace(req.Query)
	if query == "" {
		p.metrics.Lookups.WithLabelValues("invalid").Inc()
		return Response{
			Status: http.StatusBadRequest,
			Body:   ErrorBody{Error: ReasonQueryRequired},
			Stage:  StageValidating,
		}
	}
	radius := domain.ParseRadius(req.Radius)

	id := uuid.NewString()
	logger := p.logger.With("lookup_id", id, "radius", radius)

	// Outbound calls run to completion even if the inbound client disconnects.
	ctx = context.WithoutCancel(ctx)

	event := domain.LookupEvent{ID: id, Query: query, Radius: radius}

	result, stage, err := p.run(ctx, query, radius)
	if err != nil {
		p.metrics.Lookups.WithLabelValues("fallback").Inc()
		logger.Warn("lookup degraded to demo payload",
			"stage", stage,
			"reason", domain.ReasonOf(err),
			"error", err,
		)

		body := fallbackBody(err, req.Debug)
		event.Region = body.Region
		event.Total, event.Pharm, event.TopShare = body.KPI.Total, body.KPI.Pharm, body.KPI.TopShare
		event.Fallback = true
		event.Reason = domain.ReasonOf(err)
		p.publish(ctx, logger, event)

		return Response{Status: http.StatusOK, Body: body, Stage: StageFallback}
	}

	p.metrics.Lookups.WithLabelValues("live").Inc()
	p.metrics.StoresPerLookup.Observe(float64(result.summary.TotalCount))
	logger.Info("lookup served",
		"region", result.summary.Region.Name,
		"total", result.summary.TotalCount,
		"variant", result.attempt.Variant,
	)

	body := summaryBody(result.summary)
	if req.Debug {
		body.Debug = &DebugInfo{
			Sdsc2Status: result.attempt.Status,
			UsedURL:     result.attempt.URL,
			RawCount:    result.rawCount,
			Variant:     result.attempt.Variant,
		}
	}
	event.Region = body.Region
	event.Total, event.Pharm, event.TopShare = body.KPI.Total, body.KPI.Pharm, body.KPI.TopShare
	p.publish(ctx, logger, event)

	return Response{Status: http.StatusOK, Body: body, Stage: StageResponding}
}

type liveResult struct {
	summary  domain.Summary
	attempt  domain.Attempt
	rawCount int
}

// run executes CheckingCredential through Aggregating, returning the stage
// that failed alongside any error.
func (p *Pipeline) run(ctx context.Context, query string, radius int) (liveResult, Stage, error) {
	if !p.registry.HasCredential() {
		return liveResult{}, StageCheckingCredential, &domain.ConfigurationError{Key: domain.CredentialKey}
	}

	region, err := p.resolver.Resolve(ctx, query)
	if err != nil {
		return liveResult{}, StageResolving, err
	}

	found, err := p.registry.Query(ctx, region, radius)
	if err != nil {
		return liveResult{}, StageQuerying, err
	}

	summary, err := p.summarize(region, found.Items)
	if err != nil {
		return liveResult{}, StageAggregating, err
	}

	return liveResult{summary: summary, attempt: found.Attempt, rawCount: len(found.Items)}, StageResponding, nil
}

// summarize normalizes and aggregates items. A panic is reported as an error
// so the caller can fall back instead of crashing the request.
func (p *Pipeline) summarize(region domain.Coordinate, items []domain.RawStoreRecord) (summary domain.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregate: %v", r)
		}
	}()

	summary = p.aggregate(domain.NormalizeStores(items))
	summary.Region = region
	return summary, nil
}

func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, event domain.LookupEvent) {
	if p.publisher == nil {
		return
	}
	event.At = p.clock.Now().UTC()
	if err := p.publisher.Publish(ctx, event); err != nil {
		logger.Warn("publish lookup event failed", "error", err)
	}
}
