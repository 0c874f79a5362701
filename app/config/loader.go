package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of feed configurations.
type Loader struct {
	feedsDir string
}

// NewLoader creates a new configuration loader.
func NewLoader(feedsDir string) *Loader {
	return &Loader{feedsDir: feedsDir}
}

// LoadAll loads all YAML configuration files from the feeds directory, keyed
// by feed id.
func (l *Loader) LoadAll() (map[string]*FeedConfig, error) {
	configs := make(map[string]*FeedConfig)

	if _, err := os.Stat(l.feedsDir); os.IsNotExist(err) {
		return configs, nil
	}

	files, err := filepath.Glob(filepath.Join(l.feedsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.feedsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", file, err)
		}

		if _, exists := configs[config.Feed.ID]; exists {
			return nil, fmt.Errorf("duplicate feed id %q in %s", config.Feed.ID, file)
		}

		configs[config.Feed.ID] = config
		slog.Debug("Loaded feed configuration", "file", file, "feed", config.Feed.ID)
	}

	return configs, nil
}

// loadFile loads a single YAML configuration file.
func (l *Loader) loadFile(path string) (*FeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config FeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	return &config, nil
}

// setDefaults applies default values to configuration.
func (l *Loader) setDefaults(config *FeedConfig) {
	if config.Settings.RefreshInterval == 0 {
		config.Settings.RefreshInterval = 600 // seconds
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30 // seconds
	}
	if config.Settings.MaxArticles == 0 {
		config.Settings.MaxArticles = 100
	}
	if config.Settings.DeliveryRateWindow == 0 {
		config.Settings.DeliveryRateWindow = 3600 // seconds
	}
	if config.Comparisons.Strategy == "" {
		config.Comparisons.Strategy = "any"
	}
}

// validate validates the configuration.
func (l *Loader) validate(config *FeedConfig) error {
	if config.Feed.ID == "" {
		return fmt.Errorf("feed id is required")
	}
	if config.Feed.URL == "" {
		return fmt.Errorf("feed URL is required")
	}
	if config.Feed.Name == "" {
		return fmt.Errorf("feed name is required")
	}

	if config.Settings.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be non-negative")
	}
	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if config.Settings.DeliveryRateLimit < 0 {
		return fmt.Errorf("delivery rate limit must be non-negative")
	}

	if config.Comparisons.Strategy != "any" && config.Comparisons.Strategy != "all" {
		return fmt.Errorf("invalid comparison strategy: %s", config.Comparisons.Strategy)
	}

	validFields := map[string]bool{
		"title":       true,
		"description": true,
		"content":     true,
		"author":      true,
		"link":        true,
		"categories":  true,
	}

	for i, filter := range config.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	for i, medium := range config.Mediums {
		if medium.ID == "" {
			return fmt.Errorf("medium at index %d must have an id", i)
		}
		if medium.Type != "webhook" {
			return fmt.Errorf("unsupported medium type at index %d: %s", i, medium.Type)
		}
	}

	return nil
}
