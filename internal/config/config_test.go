package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/a11yscan/internal/config"
	"github.com/jonesrussell/a11yscan/internal/dedup"
	"github.com/jonesrussell/a11yscan/internal/finding"
	"github.com/jonesrussell/a11yscan/internal/semiauto"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	config.SetDefaults()

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "a11yscan", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, config.DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, "2.2", cfg.Analysis.WCAGVersion)
	assert.Equal(t, "AA", cfg.Analysis.Level)
	assert.Equal(t, "results", cfg.Analysis.ResultsDir)
	assert.Equal(t, 4, cfg.Analysis.MaxConcurrent)
	assert.True(t, cfg.Analysis.SemiAuto)

	// Every supported engine defaults to enabled.
	assert.Len(t, cfg.Analysis.Engines, len(finding.AllTools))
	for _, tool := range finding.AllTools {
		assert.True(t, cfg.Analysis.Engines[string(tool)], string(tool))
	}
}

func TestLoad_RejectsUnknownEngine(t *testing.T) {
	viper.Reset()
	config.SetDefaults()
	viper.Set("analysis.engines", map[string]any{"tenon": true})

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown engine")
}

func TestLoad_RejectsInvalidLevel(t *testing.T) {
	viper.Reset()
	config.SetDefaults()
	viper.Set("analysis.level", "AAAA")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid analysis.level")
}

func TestAnalysisConfig_DedupOptions(t *testing.T) {
	t.Parallel()

	var cfg config.AnalysisConfig
	opts := cfg.DedupOptions()
	assert.InDelta(t, dedup.DefaultSelectorThreshold, opts.SelectorThreshold, 1e-9)
	assert.InDelta(t, dedup.DefaultDescriptionThreshold, opts.DescriptionThreshold, 1e-9)

	cfg.SelectorThreshold = 0.95
	cfg.DescriptionThreshold = 0.7
	opts = cfg.DedupOptions()
	assert.InDelta(t, 0.95, opts.SelectorThreshold, 1e-9)
	assert.InDelta(t, 0.7, opts.DescriptionThreshold, 1e-9)
}

func TestAnalysisConfig_SemiAutoOptions(t *testing.T) {
	t.Parallel()

	var cfg config.AnalysisConfig
	assert.Nil(t, cfg.SemiAutoOptions().EnabledCategories)

	cfg.SemiAutoCategories = map[string]bool{"alt-text": true, "heading": false}
	opts := cfg.SemiAutoOptions()
	assert.True(t, opts.EnabledCategories[semiauto.CategoryAltText])
	assert.False(t, opts.EnabledCategories[semiauto.CategoryHeading])
}

func TestAnalysisConfig_EnabledTools(t *testing.T) {
	t.Parallel()

	cfg := config.AnalysisConfig{
		Engines: map[string]bool{
			"axe-core": true,
			"wave":     false,
		},
	}
	tools := cfg.EnabledTools()
	assert.True(t, tools[finding.ToolAxeCore])
	assert.False(t, tools[finding.ToolWave])
}
