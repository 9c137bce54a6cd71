package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkers       = 2
	DefaultThumbnailSize = 400
	DefaultFilter        = "linear"
	DefaultLogLevel      = "INFO"
	configDirName        = "picture-triage"
	configFileName       = "config.yaml"
)

// Config is the optional YAML configuration file. Flags override its values.
type Config struct {
	LogLevel      string   `yaml:"log_level"`
	Workers       int      `yaml:"workers"`
	Chunks        int      `yaml:"chunks"`
	ThumbnailSize int      `yaml:"thumbnail_size"`
	Filter        string   `yaml:"filter"`
	Exclude       []string `yaml:"exclude"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:      DefaultLogLevel,
		Workers:       DefaultWorkers,
		Chunks:        0,
		ThumbnailSize: DefaultThumbnailSize,
		Filter:        DefaultFilter,
		Exclude:       []string{},
	}
}

func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}

// LoadConfigFile reads the configuration from path. A missing file yields the
// defaults; unset fields keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.Workers > 0 {
		cfg.Workers = fileCfg.Workers
	}
	if fileCfg.Chunks > 0 {
		cfg.Chunks = fileCfg.Chunks
	}
	if fileCfg.ThumbnailSize > 0 {
		cfg.ThumbnailSize = fileCfg.ThumbnailSize
	}
	if fileCfg.Filter != "" {
		cfg.Filter = fileCfg.Filter
	}
	if len(fileCfg.Exclude) > 0 {
		cfg.Exclude = fileCfg.Exclude
	}
	return cfg, nil
}
