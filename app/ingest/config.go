package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourcesConfig describes what one ingestion run covers. Category order is
// preserved: the run processes categories in the order listed here.
type SourcesConfig struct {
	Country    string   `yaml:"country"`
	PageSize   int      `yaml:"page_size"`
	Categories []string `yaml:"categories"`
}

func defaultSources() *SourcesConfig {
	return &SourcesConfig{
		Country:    "us",
		PageSize:   100,
		Categories: []string{"technology", "business", "general", "science"},
	}
}

// LoadSources reads the sources file. A missing file yields the defaults,
// not an error; an unreadable or invalid file is an error.
func LoadSources(path string) (*SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultSources(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	config := defaultSources()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	setSourceDefaults(config)

	if err := validateSources(config); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", path, err)
	}

	return config, nil
}

func setSourceDefaults(config *SourcesConfig) {
	if config.Country == "" {
		config.Country = "us"
	}
	if config.PageSize == 0 {
		config.PageSize = 100
	}
	if len(config.Categories) == 0 {
		config.Categories = defaultSources().Categories
	}
}

func validateSources(config *SourcesConfig) error {
	if config.PageSize < 1 || config.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100, got %d", config.PageSize)
	}
	for i, category := range config.Categories {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("category at index %d is empty", i)
		}
	}
	return nil
}
