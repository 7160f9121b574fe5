package models

import "time"

// ScrapeRun is one scrape cycle as reported by the scraper service.
type ScrapeRun struct {
	Timestamp          time.Time `json:"timestamp"`
	DurationSeconds    float64   `json:"duration_seconds"`
	AccountsTotal      int       `json:"accounts_total"`
	AccountsSuccessful int       `json:"accounts_successful"`
	TotalFollowers     int64     `json:"total_followers"`
	Method             string    `json:"method,omitempty"`
}

// ScrapeStats summarizes a series of scrape runs.
type ScrapeStats struct {
	Scrapes       []ScrapeRun    `json:"scrapes"`
	TotalScrapes  int            `json:"total_scrapes"`
	SuccessCount  int            `json:"success_count"`
	FailureCount  int            `json:"failure_count"`
	AvgScrapeTime float64        `json:"avg_scrape_time"`
	SuccessRate   float64        `json:"success_rate"`
	ScrapesPerDay float64        `json:"scrapes_per_day"`
	ScrapesByDay  map[string]int `json:"scrapes_by_day,omitempty"`
	LastScrape    *time.Time     `json:"last_scrape"`
}
