package models

import "time"

// SnapshotEntry is the minimal projection of a Profile persisted between
// resolution cycles, used only to compute follower deltas on the next cycle.
type SnapshotEntry struct {
	Username  string    `json:"username"`
	Followers int64     `json:"follower_count"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotFromProfile projects a Profile onto its snapshot form.
func SnapshotFromProfile(p *Profile, at time.Time) SnapshotEntry {
	return SnapshotEntry{
		Username:  NormalizeUsername(p.Username),
		Followers: p.Followers(),
		Timestamp: at,
	}
}

// SnapshotIndex keys snapshot entries by normalized username.
func SnapshotIndex(entries []SnapshotEntry) map[string]SnapshotEntry {
	idx := make(map[string]SnapshotEntry, len(entries))
	for _, e := range entries {
		idx[NormalizeUsername(e.Username)] = e
	}
	return idx
}
