package services

import (
	"context"
	"time"

	"fld/internal/analytics"
	"fld/internal/models"
	"fld/internal/profile"
	"fld/internal/storage"
)

type LeaderboardServiceInterface interface {
	Leaderboard(ctx context.Context, refresh bool) ([]models.LeaderboardEntry, profile.Tier)
	Growth(ctx context.Context) models.GrowthStats
	Trends(ctx context.Context) models.TrendReport
	Profile(ctx context.Context, username string) (*models.Profile, bool)
	ScrapeStats(ctx context.Context) models.ScrapeStats
	UpstreamHealth(ctx context.Context) profile.UpstreamStatus
}

// LeaderboardService composes the resolver with the analytics pipeline. None
// of its read paths can fail outright: the resolver's fallback chain always
// produces a profile list, and scrape stats degrade to whatever the database
// has when the scraper is unreachable.
type LeaderboardService struct {
	resolver  profile.ResolverInterface
	source    profile.SourceInterface
	snapshots profile.SnapshotStoreInterface
	store     storage.StoreInterface
	now       func() time.Time
}

func (ls *LeaderboardService) Leaderboard(ctx context.Context, refresh bool) ([]models.LeaderboardEntry, profile.Tier) {
	profiles, tier, _ := ls.resolver.Resolve(ctx, refresh)
	return analytics.AssembleLeaderboard(profiles), tier
}

func (ls *LeaderboardService) Growth(ctx context.Context) models.GrowthStats {
	now := ls.now()
	profiles, _, _ := ls.resolver.Resolve(ctx, false)
	profiles = ls.backfillHistory(ctx, profiles, now)
	return analytics.ComputeGrowthStats(profiles, ls.previousSnapshots(ctx), now)
}

func (ls *LeaderboardService) Trends(ctx context.Context) models.TrendReport {
	now := ls.now()
	profiles, _, _ := ls.resolver.Resolve(ctx, false)
	profiles = ls.backfillHistory(ctx, profiles, now)
	return analytics.ComputeTrend(profiles, now)
}

func (ls *LeaderboardService) Profile(ctx context.Context, username string) (*models.Profile, bool) {
	return ls.resolver.Find(ctx, username)
}

// ScrapeStats prefers live stats from the scraper and records runs it has not
// seen yet, so the database can answer when the scraper is down.
func (ls *LeaderboardService) ScrapeStats(ctx context.Context) models.ScrapeStats {
	runs, err := ls.source.FetchScrapeRuns(ctx)
	if err != nil {
		runs, _ = ls.store.ScrapeRuns(ctx)
		return analytics.ComputeScrapeStats(runs, ls.now())
	}
	ls.recordNewRuns(ctx, runs)
	return analytics.ComputeScrapeStats(runs, ls.now())
}

func (ls *LeaderboardService) UpstreamHealth(ctx context.Context) profile.UpstreamStatus {
	return ls.source.Health(ctx)
}

// backfillHistory attaches database history to profiles that carry none, so
// growth windows and trends work even when the scraper payload is shallow.
func (ls *LeaderboardService) backfillHistory(ctx context.Context, profiles []models.Profile, now time.Time) []models.Profile {
	since := now.Add(-30 * 24 * time.Hour)
	out := make([]models.Profile, len(profiles))
	copy(out, profiles)
	for i := range out {
		if len(out[i].History) > 0 {
			continue
		}
		history, err := ls.store.History(ctx, out[i].Username, since)
		if err != nil || len(history) == 0 {
			continue
		}
		out[i].History = history
	}
	return out
}

// previousSnapshots builds the snapshot index backing the daily growth
// fallback, preferring the snapshot file over the database. Load failures
// degrade to an empty index.
func (ls *LeaderboardService) previousSnapshots(ctx context.Context) map[string]models.SnapshotEntry {
	entries, err := ls.snapshots.LoadSnapshots()
	if err != nil || len(entries) == 0 {
		entries, _ = ls.store.LatestSnapshots(ctx)
	}
	return models.SnapshotIndex(entries)
}

func (ls *LeaderboardService) recordNewRuns(ctx context.Context, runs []models.ScrapeRun) {
	stored, err := ls.store.ScrapeRuns(ctx)
	if err != nil {
		return
	}
	var latest time.Time
	for _, run := range stored {
		if run.Timestamp.After(latest) {
			latest = run.Timestamp
		}
	}
	for _, run := range runs {
		if run.Timestamp.After(latest) {
			_ = ls.store.RecordScrapeRun(ctx, run)
		}
	}
}

func NewLeaderboardService(resolver profile.ResolverInterface, source profile.SourceInterface, snapshots profile.SnapshotStoreInterface, store storage.StoreInterface) LeaderboardServiceInterface {
	return &LeaderboardService{
		resolver:  resolver,
		source:    source,
		snapshots: snapshots,
		store:     store,
		now:       time.Now,
	}
}
