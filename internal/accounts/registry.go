package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"fld/internal/models"
	"fld/internal/structures"
)

const minUsernameLen = 3

// RegistryInterface manages the tracked and pending account lists.
// Mutating operations return (ok, message) where message is user-facing.
type RegistryInterface interface {
	ListTracked() []models.TrackedAccount
	ListPending() []models.PendingAccount
	Submit(username, submitter string) (bool, string)
	Approve(username string) (bool, string)
	Reject(username string) (bool, string)
	Remove(username string) (bool, string)
}

// Registry persists both lists as JSON files. Usernames are unique
// case-insensitively across the tracked and pending sets combined.
type Registry struct {
	mu          sync.Mutex
	trackedPath string
	pendingPath string
	now         func() time.Time
}

func NewRegistry(conf *structures.Config) (RegistryInterface, error) {
	r := &Registry{
		trackedPath: conf.Accounts.TrackedFile,
		pendingPath: conf.Accounts.PendingFile,
		now:         time.Now,
	}
	if err := r.ensureFiles(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) ensureFiles() error {
	if _, err := os.Stat(r.trackedPath); os.IsNotExist(err) {
		if err := writeFileAtomic(r.trackedPath, models.TrackedFile{Accounts: []models.TrackedAccount{}}); err != nil {
			return fmt.Errorf("failed to create tracked accounts file: %w", err)
		}
	}
	if _, err := os.Stat(r.pendingPath); os.IsNotExist(err) {
		if err := writeFileAtomic(r.pendingPath, models.PendingFile{PendingAccounts: []models.PendingAccount{}}); err != nil {
			return fmt.Errorf("failed to create pending accounts file: %w", err)
		}
	}
	return nil
}

func (r *Registry) ListTracked() []models.TrackedAccount {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadTracked().Accounts
}

func (r *Registry) ListPending() []models.PendingAccount {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadPending().PendingAccounts
}

func (r *Registry) Submit(username, submitter string) (bool, string) {
	username = models.NormalizeUsername(username)
	if len(username) < minUsernameLen {
		return false, "Invalid username format"
	}
	if submitter == "" {
		submitter = "Anonymous"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tracked := r.loadTracked()
	for _, a := range tracked.Accounts {
		if models.NormalizeUsername(a.Username) == username {
			return false, fmt.Sprintf("Account @%s is already being tracked", username)
		}
	}

	pending := r.loadPending()
	for _, a := range pending.PendingAccounts {
		if models.NormalizeUsername(a.Username) == username {
			return false, fmt.Sprintf("Account @%s is already pending approval", username)
		}
	}

	pending.PendingAccounts = append(pending.PendingAccounts, models.PendingAccount{
		Username:    username,
		Submitter:   submitter,
		SubmittedAt: r.now(),
	})

	if err := writeFileAtomic(r.pendingPath, pending); err != nil {
		return false, "Error saving pending account"
	}
	return true, fmt.Sprintf("Account @%s has been submitted for review", username)
}

func (r *Registry) Approve(username string) (bool, string) {
	username = models.NormalizeUsername(username)

	r.mu.Lock()
	defer r.mu.Unlock()

	pending := r.loadPending()
	idx := -1
	for i, a := range pending.PendingAccounts {
		if models.NormalizeUsername(a.Username) == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, fmt.Sprintf("Account @%s is not in the pending list", username)
	}

	approved := pending.PendingAccounts[idx]
	pending.PendingAccounts = append(pending.PendingAccounts[:idx], pending.PendingAccounts[idx+1:]...)
	if err := writeFileAtomic(r.pendingPath, pending); err != nil {
		return false, "Error saving pending accounts"
	}

	tracked := r.loadTracked()
	tracked.Accounts = append(tracked.Accounts, models.TrackedAccount{
		Username:   approved.Username,
		Submitter:  approved.Submitter,
		ApprovedAt: r.now(),
	})
	if err := writeFileAtomic(r.trackedPath, tracked); err != nil {
		return false, "Error saving approved account"
	}
	return true, fmt.Sprintf("Account @%s has been approved", username)
}

func (r *Registry) Reject(username string) (bool, string) {
	username = models.NormalizeUsername(username)

	r.mu.Lock()
	defer r.mu.Unlock()

	pending := r.loadPending()
	idx := -1
	for i, a := range pending.PendingAccounts {
		if models.NormalizeUsername(a.Username) == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, fmt.Sprintf("Account @%s is not in the pending list", username)
	}

	pending.PendingAccounts = append(pending.PendingAccounts[:idx], pending.PendingAccounts[idx+1:]...)
	if err := writeFileAtomic(r.pendingPath, pending); err != nil {
		return false, "Error saving pending accounts"
	}
	return true, fmt.Sprintf("Account @%s has been rejected", username)
}

func (r *Registry) Remove(username string) (bool, string) {
	username = models.NormalizeUsername(username)

	r.mu.Lock()
	defer r.mu.Unlock()

	tracked := r.loadTracked()
	idx := -1
	for i, a := range tracked.Accounts {
		if models.NormalizeUsername(a.Username) == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, fmt.Sprintf("Account @%s is not in the tracked accounts list", username)
	}

	tracked.Accounts = append(tracked.Accounts[:idx], tracked.Accounts[idx+1:]...)
	if err := writeFileAtomic(r.trackedPath, tracked); err != nil {
		return false, "Error saving accounts"
	}
	return true, fmt.Sprintf("Account @%s has been removed from tracking", username)
}

// loadTracked returns an empty list on any read error so that a corrupt or
// missing file degrades to "no accounts" instead of failing requests.
func (r *Registry) loadTracked() models.TrackedFile {
	var out models.TrackedFile
	data, err := os.ReadFile(r.trackedPath)
	if err != nil {
		return models.TrackedFile{Accounts: []models.TrackedAccount{}}
	}
	if err := json.Unmarshal(data, &out); err != nil || out.Accounts == nil {
		return models.TrackedFile{Accounts: []models.TrackedAccount{}}
	}
	return out
}

func (r *Registry) loadPending() models.PendingFile {
	var out models.PendingFile
	data, err := os.ReadFile(r.pendingPath)
	if err != nil {
		return models.PendingFile{PendingAccounts: []models.PendingAccount{}}
	}
	if err := json.Unmarshal(data, &out); err != nil || out.PendingAccounts == nil {
		return models.PendingFile{PendingAccounts: []models.PendingAccount{}}
	}
	return out
}

func writeFileAtomic(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}
