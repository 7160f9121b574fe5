package analytics

import (
	"sort"
	"time"

	"fld/internal/models"
)

const (
	dailyWindow   = 24 * time.Hour
	weeklyWindow  = 7 * 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour

	daysPerWeek = 7
)

// ComputeGrowth derives the growth figures for one profile. Each window is
// computed independently from the profile's history; when the history has
// fewer than two points the explicit follower change (or the previous
// snapshot diff) fills in what it can.
func ComputeGrowth(p *models.Profile, previous map[string]models.SnapshotEntry, now time.Time) models.GrowthRecord {
	history := p.SortedHistory()
	current := p.Followers()

	daily := windowGrowth(current, history, now.Add(-dailyWindow))
	weekly := windowGrowth(current, history, now.Add(-weeklyWindow))
	monthly := windowGrowth(current, history, now.Add(-monthlyWindow))

	if len(history) < 2 {
		if p.FollowerChange != nil {
			daily = *p.FollowerChange
			if !p.DerivedChange {
				weekly = *p.FollowerChange
			}
		} else if prev, ok := previous[models.NormalizeUsername(p.Username)]; ok {
			daily = current - prev.Followers
		}
	}

	return models.GrowthRecord{
		Username:      models.NormalizeUsername(p.Username),
		Followers:     p.Followers(),
		DailyGrowth:   daily,
		WeeklyGrowth:  weekly,
		MonthlyGrowth: monthly,
		GrowthRate:    growthRate(p.Followers(), weekly),
	}
}

// ComputeGrowthStats aggregates growth across all profiles that carry a
// follower count, ordered by growth rate descending.
func ComputeGrowthStats(profiles []models.Profile, previous map[string]models.SnapshotEntry, now time.Time) models.GrowthStats {
	records := make([]models.GrowthRecord, 0, len(profiles))
	var totalFollowers, totalWeekly int64
	for i := range profiles {
		if profiles[i].FollowerCount == nil {
			continue
		}
		rec := ComputeGrowth(&profiles[i], previous, now)
		records = append(records, rec)
		totalFollowers += rec.Followers
		totalWeekly += rec.WeeklyGrowth
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].GrowthRate > records[j].GrowthRate
	})

	return models.GrowthStats{
		TotalAccounts:     len(records),
		TotalFollowers:    totalFollowers,
		TotalWeeklyGrowth: totalWeekly,
		AvgGrowthRate:     growthRate(totalFollowers, totalWeekly),
		Accounts:          records,
	}
}

// windowGrowth is the delta between the current follower count and the
// oldest history point at or after the cutoff. The count may be newer than
// the last recorded point, so the history only anchors the window start.
// Fewer than two points in the window means the growth is unknown and
// reported as 0.
func windowGrowth(current int64, history []models.HistoryPoint, cutoff time.Time) int64 {
	first := -1
	for i := range history {
		if !history[i].Timestamp.Before(cutoff) {
			first = i
			break
		}
	}
	if first < 0 || len(history)-first < 2 {
		return 0
	}
	return current - history[first].Followers
}

// growthRate converts a weekly follower delta into a percent-per-day rate
// against the base count at the start of the week. A base of zero or a
// negative base yields 0 rather than a nonsense percentage.
func growthRate(followers, weekly int64) float64 {
	base := followers - weekly
	if base <= 0 || weekly == 0 {
		return 0
	}
	return float64(weekly) / float64(base) * (100.0 / daysPerWeek)
}
