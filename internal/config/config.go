// Package config defines the application configuration and loads it from
// Viper-managed sources (config file, environment, defaults).
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/a11yscan/internal/dedup"
	"github.com/jonesrussell/a11yscan/internal/finding"
	"github.com/jonesrussell/a11yscan/internal/logger"
	"github.com/jonesrussell/a11yscan/internal/semiauto"
)

// Default server timeouts.
const (
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
)

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Environment string `yaml:"environment" json:"environment"`
	Debug       bool   `yaml:"debug" json:"debug"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Address      string        `yaml:"address" json:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
}

// AnalysisConfig holds the per-analysis options.
type AnalysisConfig struct {
	// Engines toggles each checker by tool source name.
	Engines map[string]bool `yaml:"engines" json:"engines"`
	// WCAGVersion is the targeted standard revision.
	WCAGVersion string `yaml:"wcag_version" json:"wcag_version"`
	// Level is the targeted conformance level.
	Level string `yaml:"level" json:"level"`
	// SelectorThreshold and DescriptionThreshold tune dedup matching.
	SelectorThreshold    float64 `yaml:"selector_threshold" json:"selector_threshold"`
	DescriptionThreshold float64 `yaml:"description_threshold" json:"description_threshold"`
	// SemiAuto enables human-review item extraction.
	SemiAuto bool `yaml:"semi_auto" json:"semi_auto"`
	// SemiAutoCategories toggles extraction per review category.
	SemiAutoCategories map[string]bool `yaml:"semi_auto_categories" json:"semi_auto_categories"`
	// Responsive requests additional viewport testing.
	Responsive bool `yaml:"responsive" json:"responsive"`
	// MaxConcurrent bounds how many analyses run at once.
	MaxConcurrent int `yaml:"max_concurrent" json:"max_concurrent"`
	// ResultsDir is where file-backed adapters find captured engine
	// output (<tool>.json per engine).
	ResultsDir string `yaml:"results_dir" json:"results_dir"`
}

// Config is the root configuration.
type Config struct {
	App      AppConfig      `yaml:"app" json:"app"`
	Logger   logger.Config  `yaml:"logger" json:"logger"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
}

// Load builds the configuration from Viper's current state.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        viper.GetString("app.name"),
			Version:     viper.GetString("app.version"),
			Environment: viper.GetString("app.environment"),
			Debug:       viper.GetBool("app.debug"),
		},
		Logger: logger.Config{
			Level:       logger.Level(viper.GetString("logger.level")),
			Development: viper.GetBool("logger.development"),
			Encoding:    viper.GetString("logger.encoding"),
			OutputPaths: viper.GetStringSlice("logger.output_paths"),
		},
		Server: ServerConfig{
			Address:      viper.GetString("server.address"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
			IdleTimeout:  viper.GetDuration("server.idle_timeout"),
		},
		Analysis: AnalysisConfig{
			Engines:              stringMapBool("analysis.engines"),
			WCAGVersion:          viper.GetString("analysis.wcag_version"),
			Level:                viper.GetString("analysis.level"),
			SelectorThreshold:    viper.GetFloat64("analysis.selector_threshold"),
			DescriptionThreshold: viper.GetFloat64("analysis.description_threshold"),
			SemiAuto:             viper.GetBool("analysis.semi_auto"),
			SemiAutoCategories:   stringMapBool("analysis.semi_auto_categories"),
			Responsive:           viper.GetBool("analysis.responsive"),
			MaxConcurrent:        viper.GetInt("analysis.max_concurrent"),
			ResultsDir:           viper.GetString("analysis.results_dir"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringMapBool reads a map of booleans from Viper, tolerating string
// values from environment overrides.
func stringMapBool(key string) map[string]bool {
	raw := viper.GetStringMap(key)
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case bool:
			out[k] = val
		case string:
			out[k] = val == "true" || val == "1"
		}
	}
	return out
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	for name := range c.Analysis.Engines {
		if !finding.IsValidTool(finding.ToolSource(name)) {
			return fmt.Errorf("unknown engine %q in analysis.engines", name)
		}
	}
	switch c.Analysis.Level {
	case "", "A", "AA", "AAA":
	default:
		return fmt.Errorf("invalid analysis.level %q", c.Analysis.Level)
	}
	return nil
}

// EnabledTools converts the engine toggle map onto the closed tool set.
func (c *AnalysisConfig) EnabledTools() map[finding.ToolSource]bool {
	out := make(map[finding.ToolSource]bool, len(c.Engines))
	for name, enabled := range c.Engines {
		out[finding.ToolSource(name)] = enabled
	}
	return out
}

// DedupOptions converts the configured thresholds into dedup options,
// falling back to the defaults for unset values.
func (c *AnalysisConfig) DedupOptions() dedup.Options {
	opts := dedup.DefaultOptions()
	if c.SelectorThreshold > 0 {
		opts.SelectorThreshold = c.SelectorThreshold
	}
	if c.DescriptionThreshold > 0 {
		opts.DescriptionThreshold = c.DescriptionThreshold
	}
	return opts
}

// SemiAutoOptions converts the category toggles into extractor options.
func (c *AnalysisConfig) SemiAutoOptions() semiauto.Options {
	if len(c.SemiAutoCategories) == 0 {
		return semiauto.Options{}
	}
	enabled := make(map[semiauto.Category]bool, len(c.SemiAutoCategories))
	for name, on := range c.SemiAutoCategories {
		enabled[semiauto.Category(name)] = on
	}
	return semiauto.Options{EnabledCategories: enabled}
}

// SetDefaults registers production-safe defaults with Viper.
func SetDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "a11yscan",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"output_paths": []string{"stdout"},
	})

	viper.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  DefaultReadTimeout.String(),
		"write_timeout": DefaultWriteTimeout.String(),
		"idle_timeout":  DefaultIdleTimeout.String(),
	})

	engineDefaults := make(map[string]any, len(finding.AllTools))
	for _, t := range finding.AllTools {
		engineDefaults[string(t)] = true
	}
	viper.SetDefault("analysis", map[string]any{
		"engines":               engineDefaults,
		"wcag_version":          "2.2",
		"level":                 "AA",
		"selector_threshold":    dedup.DefaultSelectorThreshold,
		"description_threshold": dedup.DefaultDescriptionThreshold,
		"semi_auto":             true,
		"responsive":            false,
		"max_concurrent":        4,
		"results_dir":           "results",
	})
}
