package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fld/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Scraper: structures.ScraperConfig{
			BaseURL:        "http://localhost:5000",
			ProfileTimeout: 30 * time.Second,
			HealthTimeout:  5 * time.Second,
		},
		Resolver: structures.ResolverConfig{
			CacheExpiry: 5 * time.Minute,
			SnapshotDir: "/tmp/fld/snapshots",
			BackupKeep:  5,
		},
		Accounts: structures.AccountsConfig{
			TrackedFile: "/tmp/fld/accounts.json",
			PendingFile: "/tmp/fld/pending_accounts.json",
		},
		Scheduler: structures.SchedulerConfig{
			RefreshInterval: time.Hour,
			PersistInterval: 30 * time.Minute,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidScraperURL(t *testing.T) {
	c := validConfig()
	c.Scraper.BaseURL = "not-a-url"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingSnapshotDir(t *testing.T) {
	c := validConfig()
	c.Resolver.SnapshotDir = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingAccountFiles(t *testing.T) {
	c := validConfig()
	c.Accounts.TrackedFile = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroRefreshInterval(t *testing.T) {
	c := validConfig()
	c.Scheduler.RefreshInterval = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
