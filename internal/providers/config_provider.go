package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"fld/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "FLD_LOG_LEVEL")
	viper.BindEnv("scraper.baseURL", "FLD_SCRAPER_URL")
	viper.BindEnv("resolver.cacheExpiry", "FLD_CACHE_EXPIRY")
	viper.BindEnv("storage.path", "FLD_STORAGE_PATH")
	viper.BindEnv("cache.enabled", "FLD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "FLD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	if conf.Resolver.BackupKeep <= 0 {
		conf.Resolver.BackupKeep = 5
	}

	conf.AppName = "FollowerLeaderboardDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
