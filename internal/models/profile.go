package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// HistoryPoint is a single observation of an account's follower count.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Followers int64     `json:"followers"`
}

// Profile is one scrape of an account's public metrics. FollowerCount is a
// pointer so that "never observed" is distinguishable from zero followers —
// profiles without a count are excluded from ranked output.
type Profile struct {
	Username       string         `json:"username"`
	FollowerCount  *int64         `json:"followers,omitempty"`
	FollowerChange *int64         `json:"follower_change,omitempty"`
	// DerivedChange marks FollowerChange as computed locally from a previous
	// snapshot or history rather than reported by the scraper. Derived values
	// never stand in for weekly growth.
	DerivedChange bool           `json:"-"`
	Bio           string         `json:"bio,omitempty"`
	ProfilePicURL string         `json:"profile_pic_url,omitempty"`
	History       []HistoryPoint `json:"history,omitempty"`
	ObservedAt    time.Time      `json:"observed_at,omitempty"`
}

// Followers returns the follower count or 0 when absent.
func (p *Profile) Followers() int64 {
	if p.FollowerCount == nil {
		return 0
	}
	return *p.FollowerCount
}

// SortedHistory returns the profile's history ordered by timestamp ascending.
// The receiver is not modified.
func (p *Profile) SortedHistory() []HistoryPoint {
	if len(p.History) == 0 {
		return nil
	}
	out := make([]HistoryPoint, len(p.History))
	copy(out, p.History)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// NormalizeUsername lowercases and trims a username, dropping a leading "@".
func NormalizeUsername(username string) string {
	username = strings.TrimSpace(strings.ToLower(username))
	return strings.TrimPrefix(username, "@")
}

// rawProfile tolerates the field-name drift between the scraper service
// ("followers") and the snapshot file format ("follower_count").
type rawProfile struct {
	Username       string         `json:"username"`
	Followers      *int64         `json:"followers"`
	FollowerCount  *int64         `json:"follower_count"`
	FollowerChange *int64         `json:"follower_change"`
	Bio            string         `json:"bio"`
	ProfilePicURL  string         `json:"profile_pic_url"`
	History        []HistoryPoint `json:"history"`
	ObservedAt     time.Time      `json:"observed_at"`
}

func (r *rawProfile) toProfile() Profile {
	count := r.Followers
	if count == nil {
		count = r.FollowerCount
	}
	return Profile{
		Username:       NormalizeUsername(r.Username),
		FollowerCount:  count,
		FollowerChange: r.FollowerChange,
		Bio:            r.Bio,
		ProfilePicURL:  r.ProfilePicURL,
		History:        r.History,
		ObservedAt:     r.ObservedAt,
	}
}

// ParseProfiles decodes a profile listing payload. Upstream payloads have been
// observed as a bare array, as {"data": [...]} and as {"profiles": [...]};
// anything else is a malformed-data error, never a guess.
func ParseProfiles(payload []byte) ([]Profile, error) {
	var raws []rawProfile
	if err := json.Unmarshal(payload, &raws); err == nil {
		return fromRaw(raws), nil
	}

	var wrapped struct {
		Data     []rawProfile `json:"data"`
		Profiles []rawProfile `json:"profiles"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected profile payload shape: %w", err)
	}
	if wrapped.Data != nil {
		return fromRaw(wrapped.Data), nil
	}
	if wrapped.Profiles != nil {
		return fromRaw(wrapped.Profiles), nil
	}
	return nil, fmt.Errorf("profile payload contains no profile list")
}

func fromRaw(raws []rawProfile) []Profile {
	profiles := make([]Profile, 0, len(raws))
	for i := range raws {
		p := raws[i].toProfile()
		if p.Username == "" {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles
}
