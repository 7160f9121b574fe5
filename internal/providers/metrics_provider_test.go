package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"fld/internal/models"
	"fld/internal/structures"
)

// --- minimal mock for RegistryInterface ---

type metricsTestRegistry struct{}

func (m *metricsTestRegistry) ListTracked() []models.TrackedAccount {
	return []models.TrackedAccount{{Username: "alpha"}, {Username: "beta"}}
}
func (m *metricsTestRegistry) ListPending() []models.PendingAccount { return nil }
func (m *metricsTestRegistry) Submit(_, _ string) (bool, string)    { return true, "" }
func (m *metricsTestRegistry) Approve(_ string) (bool, string)      { return true, "" }
func (m *metricsTestRegistry) Reject(_ string) (bool, string)       { return true, "" }
func (m *metricsTestRegistry) Remove(_ string) (bool, string)       { return true, "" }

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestRegistry{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncResolverTier("remote")
	m.SetProfilesTotal(10)
	m.ObservePersistenceDuration(time.Millisecond)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestRegistry{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestRegistry{})

	m.IncRequestsTotal("/api/leaderboard", 200)
	m.IncRequestsTotal("/api/leaderboard", 404)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncResolverTier("remote")
	m.IncResolverTier("sample")
	m.SetProfilesTotal(7)
	m.ObserveRequestDuration("/api/leaderboard", 10*time.Millisecond)
	m.ObservePersistenceDuration(25 * time.Millisecond)

	families, err := reg.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["fld_requests_total"])
	assert.True(t, names["fld_cache_hits_total"])
	assert.True(t, names["fld_resolver_tier_total"])
	assert.True(t, names["fld_profiles_total"])
	assert.True(t, names["fld_tracked_accounts"])
}

func TestHttpStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", httpStatusBucket(101))
	assert.Equal(t, "2xx", httpStatusBucket(200))
	assert.Equal(t, "3xx", httpStatusBucket(301))
	assert.Equal(t, "4xx", httpStatusBucket(404))
	assert.Equal(t, "5xx", httpStatusBucket(502))
}
