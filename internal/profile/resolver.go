package profile

import (
	"context"
	"sync"
	"time"

	"fld/internal/models"
	"fld/internal/providers"
	"fld/internal/storage"
	"fld/internal/structures"
)

// Tier identifies which fallback source served a resolution.
type Tier string

const (
	TierMemory   Tier = "memory"
	TierRemote   Tier = "remote"
	TierStale    Tier = "stale"
	TierFile     Tier = "file"
	TierDatabase Tier = "database"
	TierSample   Tier = "sample"
)

type ResolverInterface interface {
	Resolve(ctx context.Context, bypassCache bool) ([]models.Profile, Tier, error)
	Find(ctx context.Context, username string) (*models.Profile, bool)
	Refresh(ctx context.Context)
	Persist(ctx context.Context) error
}

// tierFn attempts one fallback source. ok=false hands over to the next tier.
type tierFn struct {
	tier Tier
	run  func(ctx context.Context, bypassCache bool) (profiles []models.Profile, ok bool)
}

// Resolver owns the in-memory profile cache and the ordered fallback chain:
// fresh cache, remote fetch, stale cache, snapshot file, database, static
// samples. The chain never comes up empty: the sample tier guarantees a
// non-empty result even when every upstream is down.
type Resolver struct {
	source    SourceInterface
	snapshots SnapshotStoreInterface
	store     storage.StoreInterface
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
	expiry    time.Duration
	tiers     []tierFn
	now       func() time.Time

	cacheMu  sync.Mutex
	cached   []models.Profile
	cachedAt time.Time
}

func NewResolver(conf *structures.Config, source SourceInterface, snapshots SnapshotStoreInterface, store storage.StoreInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) ResolverInterface {
	r := &Resolver{
		source:    source,
		snapshots: snapshots,
		store:     store,
		metrics:   metrics,
		logger:    logger,
		expiry:    conf.Resolver.CacheExpiry,
		now:       time.Now,
	}
	r.tiers = []tierFn{
		{TierMemory, r.fromFreshCache},
		{TierRemote, r.fromRemote},
		{TierStale, r.fromStaleCache},
		{TierFile, r.fromSnapshotFile},
		{TierDatabase, r.fromDatabase},
		{TierSample, r.fromSamples},
	}
	return r
}

func (r *Resolver) Resolve(ctx context.Context, bypassCache bool) ([]models.Profile, Tier, error) {
	for _, t := range r.tiers {
		profiles, ok := t.run(ctx, bypassCache)
		if !ok {
			continue
		}
		r.metrics.IncResolverTier(string(t.tier))
		r.metrics.SetProfilesTotal(len(profiles))
		return profiles, t.tier, nil
	}
	// unreachable, the sample tier always succeeds
	return nil, TierSample, nil
}

// Find resolves profiles and looks one up by username, case-insensitively.
func (r *Resolver) Find(ctx context.Context, username string) (*models.Profile, bool) {
	username = models.NormalizeUsername(username)
	profiles, _, _ := r.Resolve(ctx, false)
	for i := range profiles {
		if models.NormalizeUsername(profiles[i].Username) == username {
			return &profiles[i], true
		}
	}
	return nil, false
}

// Refresh forces a resolution bypassing the fresh-cache tier. Used by the
// background scheduler.
func (r *Resolver) Refresh(ctx context.Context) {
	r.Resolve(ctx, true)
}

// Persist flushes the current cache to durable storage. A cold cache is not
// an error.
func (r *Resolver) Persist(ctx context.Context) error {
	cached, ok := r.anyCache()
	if !ok {
		return nil
	}
	r.persist(ctx, cached)
	return nil
}

func (r *Resolver) fromFreshCache(ctx context.Context, bypassCache bool) ([]models.Profile, bool) {
	if bypassCache {
		return nil, false
	}
	cached, age, ok := r.freshCache()
	if !ok {
		return nil, false
	}
	r.logger.Debugf(providers.TypeApp, "Using cached profile data (age: %.1fs)", age.Seconds())
	return cached, true
}

func (r *Resolver) fromRemote(ctx context.Context, _ bool) ([]models.Profile, bool) {
	profiles, err := r.source.FetchProfiles(ctx)
	if err != nil {
		r.logger.Warnf(providers.TypeApp, "Remote fetch failed, falling back: %s", err)
		return nil, false
	}
	previous := r.previousSnapshots(ctx)
	annotated := annotateChanges(profiles, previous)
	r.swapCache(annotated)
	r.persist(ctx, annotated)
	return annotated, true
}

// fromStaleCache serves expired cached data as last-known-good when the
// scraper is unreachable.
func (r *Resolver) fromStaleCache(ctx context.Context, _ bool) ([]models.Profile, bool) {
	cached, ok := r.anyCache()
	if !ok {
		return nil, false
	}
	r.logger.Infof(providers.TypeApp, "Using stale cached profiles as fallback")
	return cached, true
}

func (r *Resolver) fromSnapshotFile(ctx context.Context, _ bool) ([]models.Profile, bool) {
	profiles, err := r.snapshots.LoadLatest()
	if err != nil {
		r.logger.Errorf(providers.TypeApp, "Error loading backup data: %s", err)
		return nil, false
	}
	if len(profiles) == 0 {
		return nil, false
	}
	previous := r.previousSnapshots(ctx)
	annotated := annotateChanges(profiles, previous)
	r.swapCache(annotated)
	r.persist(ctx, annotated)
	r.logger.Infof(providers.TypeApp, "Loaded %d profiles from backup file", len(annotated))
	return annotated, true
}

func (r *Resolver) fromDatabase(ctx context.Context, _ bool) ([]models.Profile, bool) {
	entries, err := r.store.LatestSnapshots(ctx)
	if err != nil {
		r.logger.Errorf(providers.TypeApp, "Error loading database snapshots: %s", err)
		return nil, false
	}
	if len(entries) == 0 {
		return nil, false
	}
	profiles := profilesFromSnapshots(entries)
	r.swapCache(profiles)
	r.logger.Infof(providers.TypeApp, "Loaded %d profiles from database snapshots", len(profiles))
	return profiles, true
}

// fromSamples never caches its result, so a recovered upstream wins on the
// next call.
func (r *Resolver) fromSamples(ctx context.Context, _ bool) ([]models.Profile, bool) {
	r.logger.Warnf(providers.TypeApp, "Using sample data as last resort")
	return SampleProfiles(), true
}

func (r *Resolver) freshCache() ([]models.Profile, time.Duration, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if r.cached == nil {
		return nil, 0, false
	}
	age := r.now().Sub(r.cachedAt)
	if age >= r.expiry {
		return nil, age, false
	}
	return copyProfiles(r.cached), age, true
}

func (r *Resolver) anyCache() ([]models.Profile, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if r.cached == nil {
		return nil, false
	}
	return copyProfiles(r.cached), true
}

// swapCache replaces the cache wholesale; readers never observe a
// partially updated list.
func (r *Resolver) swapCache(profiles []models.Profile) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cached = profiles
	r.cachedAt = r.now()
}

// previousSnapshots loads the delta reference, preferring the snapshot file
// over the database.
func (r *Resolver) previousSnapshots(ctx context.Context) map[string]models.SnapshotEntry {
	entries, err := r.snapshots.LoadSnapshots()
	if err != nil {
		r.logger.Warnf(providers.TypeApp, "Failed to load previous snapshot cache: %s", err)
	}
	if len(entries) == 0 {
		entries, err = r.store.LatestSnapshots(ctx)
		if err != nil {
			r.logger.Warnf(providers.TypeApp, "Failed to load database snapshots: %s", err)
		}
	}
	return models.SnapshotIndex(entries)
}

// persist writes the resolved list and its snapshot projection. Failures are
// logged and resolution continues with the in-memory result.
func (r *Resolver) persist(ctx context.Context, profiles []models.Profile) {
	start := r.now()
	at := r.now()

	entries := make([]models.SnapshotEntry, 0, len(profiles))
	for i := range profiles {
		if profiles[i].FollowerCount == nil {
			continue
		}
		entries = append(entries, models.SnapshotFromProfile(&profiles[i], at))
	}

	if err := r.snapshots.SaveLatest(profiles); err != nil {
		r.logger.Errorf(providers.TypeApp, "Failed to persist profile list: %s", err)
	}
	if err := r.snapshots.SaveSnapshots(entries); err != nil {
		r.logger.Errorf(providers.TypeApp, "Failed to persist snapshot cache: %s", err)
	}
	if err := r.store.SaveSnapshots(ctx, entries); err != nil {
		r.logger.Errorf(providers.TypeApp, "Failed to persist database snapshots: %s", err)
	}

	r.metrics.ObservePersistenceDuration(r.now().Sub(start))
}

// annotateChanges fills FollowerChange for profiles that do not carry an
// explicit value: first against the previous snapshot, then from the last
// two history points. Filled values are marked derived so they only ever
// stand in for daily growth.
func annotateChanges(profiles []models.Profile, previous map[string]models.SnapshotEntry) []models.Profile {
	out := make([]models.Profile, len(profiles))
	copy(out, profiles)
	for i := range out {
		if out[i].FollowerChange != nil || out[i].FollowerCount == nil {
			continue
		}
		if prev, ok := previous[models.NormalizeUsername(out[i].Username)]; ok {
			change := out[i].Followers() - prev.Followers
			out[i].FollowerChange = &change
			out[i].DerivedChange = true
			continue
		}
		if history := out[i].SortedHistory(); len(history) >= 2 {
			change := history[len(history)-1].Followers - history[len(history)-2].Followers
			out[i].FollowerChange = &change
			out[i].DerivedChange = true
		}
	}
	return out
}

func profilesFromSnapshots(entries []models.SnapshotEntry) []models.Profile {
	profiles := make([]models.Profile, 0, len(entries))
	for _, e := range entries {
		count := e.Followers
		profiles = append(profiles, models.Profile{
			Username:      models.NormalizeUsername(e.Username),
			FollowerCount: &count,
			ObservedAt:    e.Timestamp,
		})
	}
	return profiles
}

func copyProfiles(profiles []models.Profile) []models.Profile {
	out := make([]models.Profile, len(profiles))
	copy(out, profiles)
	return out
}

// SampleProfiles is the fixed placeholder set returned when every other tier
// is empty, so the API never hard-errors just because the upstream is down.
func SampleProfiles() []models.Profile {
	mk := func(username string, followers, change int64, bio string) models.Profile {
		return models.Profile{
			Username:       username,
			FollowerCount:  &followers,
			FollowerChange: &change,
			Bio:            bio,
			ProfilePicURL:  "/static/" + username + ".jpg",
		}
	}
	return []models.Profile{
		mk("sample_ai_account1", 250000, 1500, "Sample AI-generated account"),
		mk("sample_ai_account2", 180000, 900, "Another sample account"),
	}
}
