package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequirementsRanked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rfp_requirements_ranked_total",
			Help: "Requirement lines ranked against the catalog",
		},
	)
	ProposalsBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rfp_proposals_built_total",
			Help: "Proposals consolidated successfully",
		},
	)
	PricingFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfp_pricing_failures_total",
			Help: "Pricing runs aborted, by reason",
		},
		[]string{"reason"},
	)
	RankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rfp_rank_duration_seconds",
			Help:    "Time spent ranking all requirements of one request",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)
	CatalogItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rfp_catalog_items",
			Help: "Items in the loaded catalog snapshot",
		},
	)
)

// Register adds the collectors to reg. Collectors that are never
// registered still count, they are just not exported.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(RequirementsRanked, ProposalsBuilt, PricingFailures, RankDuration, CatalogItems)
}

// ObserveRank records one ranking pass over n requirements.
func ObserveRank(n int, since time.Time) {
	RequirementsRanked.Add(float64(n))
	RankDuration.Observe(time.Since(since).Seconds())
}
