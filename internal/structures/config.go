package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type ScraperConfig struct {
	BaseURL        string        `yaml:"baseURL" validate:"required|fullUrl"`
	ProfileTimeout time.Duration `yaml:"profileTimeout" validate:"required|min:1"`
	HealthTimeout  time.Duration `yaml:"healthTimeout" validate:"required|min:1"`
}

type ResolverConfig struct {
	CacheExpiry time.Duration `yaml:"cacheExpiry" validate:"required|min:1"`
	SnapshotDir string        `yaml:"snapshotDir" validate:"required|unixPath"`
	BackupKeep  int           `yaml:"backupKeep"`
}

type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type AccountsConfig struct {
	TrackedFile string `yaml:"trackedFile" validate:"required|unixPath"`
	PendingFile string `yaml:"pendingFile" validate:"required|unixPath"`
}

type SchedulerConfig struct {
	RefreshInterval time.Duration `yaml:"refreshInterval" validate:"required|min:1"`
	PersistInterval time.Duration `yaml:"persistInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	Storage   StorageConfig   `yaml:"storage"`
	Accounts  AccountsConfig  `yaml:"accounts"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
