package analytics

import (
	"sort"
	"time"

	"fld/internal/models"
)

const scrapeRateWindowDays = 7

// ComputeScrapeStats summarizes scraper runs: success counts, average
// duration and the scrape rate over the trailing week. A run counts as
// successful when it scraped at least one account.
func ComputeScrapeStats(runs []models.ScrapeRun, now time.Time) models.ScrapeStats {
	scrapes := make([]models.ScrapeRun, len(runs))
	copy(scrapes, runs)
	sort.SliceStable(scrapes, func(i, j int) bool {
		return scrapes[i].Timestamp.After(scrapes[j].Timestamp)
	})

	stats := models.ScrapeStats{
		Scrapes:      scrapes,
		TotalScrapes: len(scrapes),
		ScrapesByDay: make(map[string]int),
	}
	if len(scrapes) == 0 {
		return stats
	}

	cutoff := now.Add(-scrapeRateWindowDays * 24 * time.Hour)
	var totalDuration float64
	var recentCount int
	for _, run := range scrapes {
		if run.AccountsSuccessful > 0 {
			stats.SuccessCount++
		} else {
			stats.FailureCount++
		}
		totalDuration += run.DurationSeconds
		if !run.Timestamp.Before(cutoff) {
			recentCount++
			stats.ScrapesByDay[run.Timestamp.UTC().Format(dateLayout)]++
		}
	}

	stats.AvgScrapeTime = totalDuration / float64(len(scrapes))
	stats.SuccessRate = float64(stats.SuccessCount) / float64(len(scrapes)) * 100
	stats.ScrapesPerDay = float64(recentCount) / scrapeRateWindowDays

	last := scrapes[0].Timestamp
	stats.LastScrape = &last
	return stats
}
