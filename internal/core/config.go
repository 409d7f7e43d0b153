package core

import (
	"fmt"

	"github.com/kmarler/opsdesk/pkg/models"
	"github.com/spf13/viper"
)

// ConfigurationManager loads and validates configuration from the
// .opsdeskconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	// basePath is the directory where .opsdeskconfig resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads the
// configuration file from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		Operator:       "",
		DefaultStation: "",
		DatabaseFile:   "opsdesk.db",
		DateWindowDays: 2,
		ExportDir:      ".",
	}
}

// LoadGlobalConfig reads the .opsdeskconfig file from the base path. If
// the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".opsdeskconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("operator", cfg.Operator)
	v.SetDefault("defaults.station", cfg.DefaultStation)
	v.SetDefault("database.file", cfg.DatabaseFile)
	v.SetDefault("dates.window_days", cfg.DateWindowDays)
	v.SetDefault("export.dir", cfg.ExportDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .opsdeskconfig: %w", err)
	}

	cfg.Operator = v.GetString("operator")
	cfg.DefaultStation = v.GetString("defaults.station")
	cfg.DatabaseFile = v.GetString("database.file")
	cfg.DateWindowDays = v.GetInt("dates.window_days")
	cfg.ExportDir = v.GetString("export.dir")

	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validating .opsdeskconfig: %w", err)
	}

	return cfg, nil
}

// ValidateConfig checks configuration invariants: a non-empty database
// file, a non-negative date window, and a well-formed default station
// when one is set.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg.DatabaseFile == "" {
		return fmt.Errorf("database.file must not be empty")
	}
	if cfg.DateWindowDays < 0 {
		return fmt.Errorf("dates.window_days must not be negative")
	}
	if cfg.DefaultStation != "" && !ValidStationCode(cfg.DefaultStation) {
		return fmt.Errorf("defaults.station %q is not a valid station code", cfg.DefaultStation)
	}
	return nil
}
