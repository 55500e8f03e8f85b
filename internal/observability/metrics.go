package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trade_area"

// Metrics holds the Prometheus counters, histograms, and gauges for the lookup service.
type Metrics struct {
	Lookups *prometheus.CounterVec // labels: outcome={live,fallback,invalid}

	// Upstream metrics.
	UpstreamRequests        *prometheus.CounterVec   // labels: upstream={geocode,registry}, outcome={success,error,empty}
	UpstreamDuration        *prometheus.HistogramVec // labels: upstream={geocode,registry}
	RegistryVariantAttempts *prometheus.CounterVec   // labels: variant={raw,encoded}, outcome={success,error}
	CredentialConfigured    prometheus.Gauge

	StoresPerLookup prometheus.Histogram

	// Lookup event publishing.
	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Lookups,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.RegistryVariantAttempts,
		m.CredentialConfigured,
		m.StoresPerLookup,
		m.EventsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Trade-area lookups by outcome.",
		}, []string{"outcome"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound calls by upstream and outcome.",
		}, []string{"upstream", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Outbound call duration in seconds, including all registry variants.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"upstream"}),
		RegistryVariantAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_variant_attempts_total",
			Help:      "Registry request attempts by credential variant and outcome.",
		}, []string{"variant", "outcome"}),
		CredentialConfigured: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credential_configured",
			Help:      "1 when the registry credential is configured, 0 otherwise.",
		}),
		StoresPerLookup: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stores_per_lookup",
			Help:      "Normalized store records per live lookup.",
			Buckets:   []float64{0, 10, 50, 100, 250, 500, 750, 1000},
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_events_published_total",
			Help:      "Lookup events handed to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
