package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCacheLookupsCounts(t *testing.T) {
	before := testutil.ToFloat64(CacheLookups.WithLabelValues("phonesCache", "hit"))
	CacheLookups.WithLabelValues("phonesCache", "hit").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(CacheLookups.WithLabelValues("phonesCache", "hit")))
}

func TestCollectorsRegistered(t *testing.T) {
	CacheErrors.WithLabelValues("get").Add(0)
	CacheInvalidations.WithLabelValues("usersCache").Add(0)
	FixturesSeeded.WithLabelValues("phones").Add(0)

	require.GreaterOrEqual(t, testutil.CollectAndCount(CacheErrors), 1)
	require.GreaterOrEqual(t, testutil.CollectAndCount(CacheInvalidations), 1)
	require.GreaterOrEqual(t, testutil.CollectAndCount(FixturesSeeded), 1)
}

func TestCacheEntriesGaugeReadsAtScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	size := 2
	g := NewCacheEntriesGauge(reg, func() int { return size })
	require.Equal(t, 2.0, testutil.ToFloat64(g))
	size = 5
	require.Equal(t, 5.0, testutil.ToFloat64(g))
	require.Panics(t, func() { NewCacheEntriesGauge(reg, func() int { return 0 }) })
}
