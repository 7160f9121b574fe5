package analytics

import (
	"sort"
	"time"

	"fld/internal/models"
)

const (
	trendIncreasing = "increasing"
	trendDecreasing = "decreasing"
	trendStable     = "stable"

	trendWindowDays = 30
	trendMinPoints  = 7

	trendUpperThreshold = 1.05
	trendLowerThreshold = 0.95

	dateLayout = "2006-01-02"
)

// ComputeTrend aggregates per-date follower averages over the trailing 30
// days and classifies the direction of the recent week against the week
// before it.
func ComputeTrend(profiles []models.Profile, now time.Time) models.TrendReport {
	points := trendPoints(profiles, now)
	return models.TrendReport{
		Direction:  classify(points),
		DataPoints: len(points),
		TrendData:  points,
	}
}

// trendPoints collapses each account's history to one observation per
// calendar date (the latest that day) and aggregates across accounts.
func trendPoints(profiles []models.Profile, now time.Time) []models.TrendPoint {
	cutoff := now.Add(-trendWindowDays * 24 * time.Hour)

	type daily struct {
		total int64
		count int
	}
	byDate := make(map[string]*daily)

	for i := range profiles {
		perDate := make(map[string]int64)
		for _, point := range profiles[i].SortedHistory() {
			if point.Timestamp.Before(cutoff) {
				continue
			}
			perDate[point.Timestamp.UTC().Format(dateLayout)] = point.Followers
		}
		for date, followers := range perDate {
			agg, ok := byDate[date]
			if !ok {
				agg = &daily{}
				byDate[date] = agg
			}
			agg.total += followers
			agg.count++
		}
	}

	points := make([]models.TrendPoint, 0, len(byDate))
	for date, agg := range byDate {
		points = append(points, models.TrendPoint{
			Date:             date,
			TotalFollowers:   agg.total,
			AccountCount:     agg.count,
			AverageFollowers: float64(agg.total) / float64(agg.count),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// classify compares the mean average of the last 7 dates with the mean of
// the 7 before them. Under 7 points there is nothing to compare; under 14
// the prior mean defaults to the recent one, which also reads as stable.
func classify(points []models.TrendPoint) string {
	n := len(points)
	if n < trendMinPoints {
		return trendStable
	}

	recent := meanAverage(points[n-trendMinPoints:])
	prior := recent
	if n >= 2*trendMinPoints {
		prior = meanAverage(points[n-2*trendMinPoints : n-trendMinPoints])
	}
	if prior == 0 {
		return trendStable
	}

	ratio := recent / prior
	switch {
	case ratio > trendUpperThreshold:
		return trendIncreasing
	case ratio < trendLowerThreshold:
		return trendDecreasing
	default:
		return trendStable
	}
}

func meanAverage(points []models.TrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.AverageFollowers
	}
	return sum / float64(len(points))
}
