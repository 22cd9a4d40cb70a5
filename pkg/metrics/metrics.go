package metrics

import "github.com/prometheus/client_golang/prometheus"

// Label values for the source dimension of upstream request metrics.
const (
	SourceBalanceAPI      = "balance_api"
	SourceChainRPC        = "chain_rpc"
	SourceSpotRates       = "spot_rates"
	SourceHistoricalRates = "historical_rates"
)

// Label values for the outcome dimension.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// UpstreamRequestsTotal counts requests issued to the external data
	// sources, partitioned by source and outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hydrator_upstream_requests_total",
		Help: "Number of requests issued to upstream data sources.",
	}, []string{"source", "outcome"})

	// BalanceFallbacksTotal counts balance lookups that degraded to the
	// direct chain RPC path.
	BalanceFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hydrator_balance_fallbacks_total",
		Help: "Number of balance lookups that fell back to a direct chain RPC query.",
	})

	// SpotRateCacheTotal counts spot rate cache lookups by result.
	SpotRateCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hydrator_spot_rate_cache_total",
		Help: "Number of spot rate cache lookups, partitioned by hit/miss.",
	}, []string{"result"})

	// RefreshDurationSeconds observes the wall time of full account refresh
	// cycles.
	RefreshDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hydrator_refresh_duration_seconds",
		Help:    "Duration of full account refresh cycles.",
		Buckets: prometheus.DefBuckets,
	})
)

// MustRegisterMetrics registers all collectors on the default registry. It
// panics on duplicate registration, so call it once from main.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		UpstreamRequestsTotal,
		BalanceFallbacksTotal,
		SpotRateCacheTotal,
		RefreshDurationSeconds,
	)
}
