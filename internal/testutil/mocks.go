package testutil

import (
	"context"
	"sync"
	"time"

	"fld/internal/models"
	"fld/internal/profile"
	"fld/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and records the
// resolver tiers and profile counts it saw.
type MockMetrics struct {
	mu            sync.Mutex
	Tiers         []string
	ProfileCounts []int
	CacheHits     int
	CacheMisses   int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncResolverTier(tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tiers = append(m.Tiers, tier)
}

func (m *MockMetrics) SetProfilesTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCounts = append(m.ProfileCounts, count)
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {}

// MockSource implements profile.SourceInterface with injectable behavior.
type MockSource struct {
	FetchProfilesFn   func(ctx context.Context) ([]models.Profile, error)
	FetchScrapeRunsFn func(ctx context.Context) ([]models.ScrapeRun, error)
	HealthStatus      string
}

func (m *MockSource) FetchProfiles(ctx context.Context) ([]models.Profile, error) {
	if m.FetchProfilesFn != nil {
		return m.FetchProfilesFn(ctx)
	}
	return nil, context.Canceled
}

func (m *MockSource) FetchScrapeRuns(ctx context.Context) ([]models.ScrapeRun, error) {
	if m.FetchScrapeRunsFn != nil {
		return m.FetchScrapeRunsFn(ctx)
	}
	return nil, context.Canceled
}

func (m *MockSource) Health(_ context.Context) profile.UpstreamStatus {
	status := m.HealthStatus
	if status == "" {
		status = "online"
	}
	return profile.UpstreamStatus{Status: status}
}

// MockResolver implements profile.ResolverInterface with fixed data.
type MockResolver struct {
	ProfileList []models.Profile
	ServedTier  profile.Tier
	Resolves    int
	Refreshes   int
	Persists    int
}

func (m *MockResolver) Resolve(_ context.Context, _ bool) ([]models.Profile, profile.Tier, error) {
	m.Resolves++
	return m.ProfileList, m.ServedTier, nil
}

func (m *MockResolver) Find(_ context.Context, username string) (*models.Profile, bool) {
	username = models.NormalizeUsername(username)
	for i := range m.ProfileList {
		if models.NormalizeUsername(m.ProfileList[i].Username) == username {
			return &m.ProfileList[i], true
		}
	}
	return nil, false
}

func (m *MockResolver) Refresh(context.Context) { m.Refreshes++ }

func (m *MockResolver) Persist(context.Context) error {
	m.Persists++
	return nil
}

// MockLeaderboardService implements services.LeaderboardServiceInterface
// with fixed data.
type MockLeaderboardService struct {
	Entries     []models.LeaderboardEntry
	Tier        profile.Tier
	GrowthData  models.GrowthStats
	TrendData   models.TrendReport
	Profiles    map[string]*models.Profile
	Stats       models.ScrapeStats
	Upstream    profile.UpstreamStatus
	Resolutions int
}

func (m *MockLeaderboardService) Leaderboard(_ context.Context, _ bool) ([]models.LeaderboardEntry, profile.Tier) {
	m.Resolutions++
	return m.Entries, m.Tier
}

func (m *MockLeaderboardService) Growth(_ context.Context) models.GrowthStats {
	return m.GrowthData
}

func (m *MockLeaderboardService) Trends(_ context.Context) models.TrendReport {
	return m.TrendData
}

func (m *MockLeaderboardService) Profile(_ context.Context, username string) (*models.Profile, bool) {
	p, ok := m.Profiles[models.NormalizeUsername(username)]
	return p, ok
}

func (m *MockLeaderboardService) ScrapeStats(_ context.Context) models.ScrapeStats {
	return m.Stats
}

func (m *MockLeaderboardService) UpstreamHealth(_ context.Context) profile.UpstreamStatus {
	return m.Upstream
}

// MockSnapshotStore implements profile.SnapshotStoreInterface in memory.
type MockSnapshotStore struct {
	mu        sync.Mutex
	Latest    []models.Profile
	Snapshots []models.SnapshotEntry
	LatestErr error
	SnapErr   error
	SaveCalls int
}

func (m *MockSnapshotStore) SaveLatest(profiles []models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LatestErr != nil {
		return m.LatestErr
	}
	m.Latest = profiles
	m.SaveCalls++
	return nil
}

func (m *MockSnapshotStore) LoadLatest() ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LatestErr != nil {
		return nil, m.LatestErr
	}
	return m.Latest, nil
}

func (m *MockSnapshotStore) SaveSnapshots(entries []models.SnapshotEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapErr != nil {
		return m.SnapErr
	}
	m.Snapshots = entries
	return nil
}

func (m *MockSnapshotStore) LoadSnapshots() ([]models.SnapshotEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapErr != nil {
		return nil, m.SnapErr
	}
	return m.Snapshots, nil
}

func (m *MockSnapshotStore) Close() {}

// MockStore implements storage.StoreInterface in memory.
type MockStore struct {
	mu        sync.Mutex
	Snapshots []models.SnapshotEntry
	Histories map[string][]models.HistoryPoint
	Runs      []models.ScrapeRun
	Err       error
}

func (m *MockStore) SaveSnapshots(_ context.Context, entries []models.SnapshotEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Snapshots = append(m.Snapshots, entries...)
	return nil
}

func (m *MockStore) LatestSnapshots(_ context.Context) ([]models.SnapshotEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	latest := make(map[string]models.SnapshotEntry)
	for _, e := range m.Snapshots {
		cur, ok := latest[e.Username]
		if !ok || e.Timestamp.After(cur.Timestamp) {
			latest[e.Username] = e
		}
	}
	out := make([]models.SnapshotEntry, 0, len(latest))
	for _, e := range latest {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockStore) History(_ context.Context, username string, since time.Time) ([]models.HistoryPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.HistoryPoint
	for _, p := range m.Histories[username] {
		if !p.Timestamp.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockStore) RecordScrapeRun(_ context.Context, run models.ScrapeRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, run)
	return nil
}

func (m *MockStore) ScrapeRuns(_ context.Context) ([]models.ScrapeRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.ScrapeRun, len(m.Runs))
	copy(out, m.Runs)
	return out, nil
}

func (m *MockStore) Close() error { return nil }

// MockRegistry implements accounts.RegistryInterface with canned responses.
type MockRegistry struct {
	mu       sync.Mutex
	Tracked  []models.TrackedAccount
	Pending  []models.PendingAccount
	OK       bool
	Message  string
	LastCall string
}

func (m *MockRegistry) ListTracked() []models.TrackedAccount {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Tracked
}

func (m *MockRegistry) ListPending() []models.PendingAccount {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Pending
}

func (m *MockRegistry) Submit(username, _ string) (bool, string) {
	return m.call("submit:" + username)
}

func (m *MockRegistry) Approve(username string) (bool, string) {
	return m.call("approve:" + username)
}

func (m *MockRegistry) Reject(username string) (bool, string) {
	return m.call("reject:" + username)
}

func (m *MockRegistry) Remove(username string) (bool, string) {
	return m.call("remove:" + username)
}

func (m *MockRegistry) call(desc string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastCall = desc
	return m.OK, m.Message
}
