package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fld/internal/models"
)

func TestAssembleLeaderboardSortsAndRanks(t *testing.T) {
	profiles := []models.Profile{
		{Username: "mid", FollowerCount: i64(500)},
		{Username: "top", FollowerCount: i64(900)},
		{Username: "low", FollowerCount: i64(100)},
	}

	entries := AssembleLeaderboard(profiles)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"top", "mid", "low"}, []string{entries[0].Username, entries[1].Username, entries[2].Username})
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestAssembleLeaderboardDropsUnknownCounts(t *testing.T) {
	profiles := []models.Profile{
		{Username: "known", FollowerCount: i64(10)},
		{Username: "unknown"},
	}

	entries := AssembleLeaderboard(profiles)
	require.Len(t, entries, 1)
	assert.Equal(t, "known", entries[0].Username)
	// ranks stay contiguous after filtering
	assert.Equal(t, 1, entries[0].Rank)
}

func TestAssembleLeaderboardTiesKeepInputOrder(t *testing.T) {
	profiles := []models.Profile{
		{Username: "first", FollowerCount: i64(100)},
		{Username: "second", FollowerCount: i64(100)},
	}

	entries := AssembleLeaderboard(profiles)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Username)
	assert.Equal(t, "second", entries[1].Username)
}

func TestAssembleLeaderboardDefaults(t *testing.T) {
	profiles := []models.Profile{
		{Username: "Bare_Account", FollowerCount: i64(5)},
	}

	entries := AssembleLeaderboard(profiles)
	require.Len(t, entries, 1)
	assert.Equal(t, "bare_account", entries[0].Username)
	assert.Equal(t, defaultBio, entries[0].Bio)
	assert.Contains(t, entries[0].AvatarURL, "ui-avatars.com")
	assert.Contains(t, entries[0].AvatarURL, "name=BA")
	assert.Equal(t, int64(0), entries[0].FollowerChange)
}

func TestAssembleLeaderboardKeepsProvidedFields(t *testing.T) {
	profiles := []models.Profile{
		{
			Username:       "full",
			FollowerCount:  i64(5),
			FollowerChange: i64(-2),
			Bio:            "actual bio",
			ProfilePicURL:  "https://cdn.example.com/full.jpg",
		},
	}

	entries := AssembleLeaderboard(profiles)
	require.Len(t, entries, 1)
	assert.Equal(t, "actual bio", entries[0].Bio)
	assert.Equal(t, "https://cdn.example.com/full.jpg", entries[0].AvatarURL)
	assert.Equal(t, int64(-2), entries[0].FollowerChange)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AB", initials("alpha_beta"))
	assert.Equal(t, "AB", initials("Alpha.Beta.Gamma"))
	assert.Equal(t, "S", initials("single"))
	assert.Equal(t, "12", initials("1st_2nd"))
	assert.Equal(t, "?", initials("___"))
}
