package models

// GrowthRecord holds the derived growth figures for one account. It is
// computed per request and never persisted.
type GrowthRecord struct {
	Username      string  `json:"username"`
	Followers     int64   `json:"followers"`
	DailyGrowth   int64   `json:"daily_growth"`
	WeeklyGrowth  int64   `json:"weekly_growth"`
	MonthlyGrowth int64   `json:"monthly_growth"`
	GrowthRate    float64 `json:"growth_rate"`
}

// GrowthStats aggregates growth across all tracked accounts.
type GrowthStats struct {
	TotalAccounts     int            `json:"total_accounts"`
	TotalFollowers    int64          `json:"total_followers"`
	TotalWeeklyGrowth int64          `json:"total_weekly_growth"`
	AvgGrowthRate     float64        `json:"avg_growth_rate"`
	Accounts          []GrowthRecord `json:"accounts"`
}

// LeaderboardEntry is a presentation row: rank assigned by sorted position,
// defaults filled for missing bio and avatar.
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	Username       string `json:"username"`
	Followers      int64  `json:"followers"`
	FollowerChange int64  `json:"follower_change"`
	Bio            string `json:"bio"`
	AvatarURL      string `json:"avatar_url"`
}

// TrendPoint is the aggregate follower average for one calendar date.
type TrendPoint struct {
	Date             string  `json:"date"`
	TotalFollowers   int64   `json:"total_followers"`
	AccountCount     int     `json:"account_count"`
	AverageFollowers float64 `json:"average_followers"`
}

// TrendReport classifies the recent direction of the aggregate averages.
type TrendReport struct {
	Direction  string       `json:"trend_direction"`
	DataPoints int          `json:"data_points"`
	TrendData  []TrendPoint `json:"trend_data"`
}
