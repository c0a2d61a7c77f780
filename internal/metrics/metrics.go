// Package metrics registers the service's custom Prometheus collectors.
// HTTP request metrics come from the echoprometheus middleware in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bilemo"

// CacheLookups counts list-cache lookups.
// Labels: tag ("phonesCache", "usersCache"), result ("hit", "miss").
var CacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Response cache lookups by tag and result.",
	},
	[]string{"tag", "result"},
)

// CacheErrors counts swallowed backend failures. Label op: generation, get, decode, set, invalidate.
var CacheErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "errors_total",
		Help:      "Response cache backend failures that fell back to direct computation.",
	},
	[]string{"op"},
)

var CacheInvalidations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Tag invalidations triggered by writes.",
	},
	[]string{"tag"},
)

var FixturesSeeded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fixtures_seeded_total",
		Help:      "Rows inserted by the fixture loader.",
	},
	[]string{"resource"},
)

// NewCacheEntriesGauge exposes the size of the in-memory cache backend,
// read at scrape time.
func NewCacheEntriesGauge(reg prometheus.Registerer, size func() int) prometheus.GaugeFunc {
	return promauto.With(reg).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries held by the in-memory response cache backend.",
		},
		func() float64 { return float64(size()) },
	)
}
