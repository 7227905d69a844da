package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"igmond/internal/structures"
	"path/filepath"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("telegram.token", "IGM_BOT_TOKEN")
	viper.BindEnv("telegram.ownerId", "IGM_OWNER_ID")
	viper.BindEnv("logger.level", "IGM_LOG_LEVEL")
	viper.BindEnv("monitor.interval", "IGM_CHECK_INTERVAL")
	viper.BindEnv("monitor.confirmationThreshold", "IGM_CONFIRMATION_THRESHOLD")
	viper.BindEnv("persistence.saveInterval", "IGM_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "IGM_CACHE_ENABLED")
	viper.BindEnv("cache.size", "IGM_CACHE_SIZE")

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

	conf.AppName = "InstagramMonitorDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
