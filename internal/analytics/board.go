package analytics

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode"

	"fld/internal/models"
)

const (
	defaultBio      = "No bio available"
	avatarURLFormat = "https://ui-avatars.com/api/?name=%s&background=E1306C&color=fff&size=150&bold=true"
)

// AssembleLeaderboard turns resolved profiles into ranked presentation rows.
// Profiles without a follower count are dropped, the rest are sorted by
// followers descending with ties keeping their input order, and ranks run
// contiguously from 1.
func AssembleLeaderboard(profiles []models.Profile) []models.LeaderboardEntry {
	ranked := make([]models.Profile, 0, len(profiles))
	for i := range profiles {
		if profiles[i].FollowerCount == nil {
			continue
		}
		ranked = append(ranked, profiles[i])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Followers() > ranked[j].Followers()
	})

	entries := make([]models.LeaderboardEntry, 0, len(ranked))
	for i := range ranked {
		p := &ranked[i]
		var change int64
		if p.FollowerChange != nil {
			change = *p.FollowerChange
		}
		bio := p.Bio
		if bio == "" {
			bio = defaultBio
		}
		avatar := p.ProfilePicURL
		if avatar == "" {
			avatar = placeholderAvatar(p.Username)
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:           i + 1,
			Username:       models.NormalizeUsername(p.Username),
			Followers:      p.Followers(),
			FollowerChange: change,
			Bio:            bio,
			AvatarURL:      avatar,
		})
	}
	return entries
}

// placeholderAvatar builds an initials avatar for profiles without a picture.
func placeholderAvatar(username string) string {
	return fmt.Sprintf(avatarURLFormat, url.QueryEscape(initials(username)))
}

// initials takes the first letter of up to two username segments, split on
// the separators usernames commonly use.
func initials(username string) string {
	username = models.NormalizeUsername(username)
	segments := strings.FieldsFunc(username, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})

	var b strings.Builder
	for _, seg := range segments {
		for _, r := range seg {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
