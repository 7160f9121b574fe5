package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"fld/internal/models"
	"fld/internal/profile/interfaces"
	"fld/internal/providers"
	"fld/internal/structures"
)

const (
	latestFileName   = "latest_data.json"
	snapshotFileName = "previous_snapshots.json"
	backupSuffix     = ".json.zst"
)

// SnapshotStoreInterface persists the last resolved profile list and the
// minimal snapshot cache used for delta computation on the next cycle.
type SnapshotStoreInterface interface {
	SaveLatest(profiles []models.Profile) error
	LoadLatest() ([]models.Profile, error)
	SaveSnapshots(entries []models.SnapshotEntry) error
	LoadSnapshots() ([]models.SnapshotEntry, error)
	Close()
}

// SnapshotStore keeps both documents in a single directory. Snapshot writes
// rotate the previous version into a timestamped zstd backup, retaining only
// the newest backupKeep files.
type SnapshotStore struct {
	dir        string
	backupKeep int
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewSnapshotStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (SnapshotStoreInterface, error) {
	if err := os.MkdirAll(conf.Resolver.SnapshotDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &SnapshotStore{
		dir:        conf.Resolver.SnapshotDir,
		backupKeep: conf.Resolver.BackupKeep,
		compressor: compressor,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func (s *SnapshotStore) SaveLatest(profiles []models.Profile) error {
	return s.writeAtomic(filepath.Join(s.dir, latestFileName), profiles)
}

func (s *SnapshotStore) LoadLatest() ([]models.Profile, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, latestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return models.ParseProfiles(data)
}

func (s *SnapshotStore) SaveSnapshots(entries []models.SnapshotEntry) error {
	path := filepath.Join(s.dir, snapshotFileName)
	if err := s.rotate(path); err != nil {
		s.logger.Warnf(providers.TypeApp, "Snapshot backup rotation failed: %s", err)
	}
	return s.writeAtomic(path, entries)
}

func (s *SnapshotStore) LoadSnapshots() ([]models.SnapshotEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []models.SnapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot cache: %w", err)
	}
	return entries, nil
}

func (s *SnapshotStore) Close() {
	s.compressor.Close()
}

// rotate compresses the current snapshot file into a timestamped backup and
// removes backups beyond backupKeep, oldest first.
func (s *SnapshotStore) rotate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return err
	}

	backup := filepath.Join(s.dir, fmt.Sprintf("previous_snapshots-%d%s", s.now().UnixNano(), backupSuffix))
	if err := os.WriteFile(backup, compressed, 0644); err != nil {
		return err
	}

	return s.prune()
}

func (s *SnapshotStore) prune() error {
	backups, err := filepath.Glob(filepath.Join(s.dir, "previous_snapshots-*"+backupSuffix))
	if err != nil {
		return err
	}
	if len(backups) <= s.backupKeep {
		return nil
	}
	// Timestamped names sort chronologically
	sort.Strings(backups)
	for _, old := range backups[:len(backups)-s.backupKeep] {
		if err := os.Remove(old); err != nil {
			s.logger.Warnf(providers.TypeApp, "Failed to remove old backup %s: %s", old, err)
		}
	}
	return nil
}

func (s *SnapshotStore) writeAtomic(path string, v any) error {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(jsonData)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}
