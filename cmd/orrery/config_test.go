package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/engine/scene"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg := loadConfig()

	assert.Empty(t, cfg.CatalogPath)
	assert.False(t, cfg.WatchCatalog)
	assert.Equal(t, "Orrery", cfg.WindowTitle)
	assert.Equal(t, 1280, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	assert.True(t, cfg.VSync)
	assert.Zero(t, cfg.FrameLimit)
	assert.False(t, cfg.SoftwareRenderer)
	assert.Equal(t, scene.DefaultStarCount, cfg.StarCount)
	assert.Equal(t, int64(scene.DefaultStarfieldSeed), cfg.StarSeed)
	assert.True(t, cfg.LOD)
	assert.Equal(t, 50.0, cfg.LODMedium)
	assert.Equal(t, 150.0, cfg.LODLow)
	assert.Equal(t, 300.0, cfg.LODVeryLow)
	assert.True(t, cfg.Animations)
	assert.False(t, cfg.Profiling)
	assert.Equal(t, time.Second, cfg.StatsInterval)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	viper.Reset()
	viper.SetEnvPrefix("ORRERY")
	viper.AutomaticEnv()

	t.Setenv("ORRERY_WINDOW_WIDTH", "1920")
	t.Setenv("ORRERY_VSYNC", "false")
	t.Setenv("ORRERY_STATS_INTERVAL", "2s")
	t.Setenv("ORRERY_CATALOG_PATH", "bodies.toml")

	cfg := loadConfig()

	assert.Equal(t, 1920, cfg.WindowWidth)
	assert.False(t, cfg.VSync)
	assert.Equal(t, 2*time.Second, cfg.StatsInterval)
	assert.Equal(t, "bodies.toml", cfg.CatalogPath)
}

func TestApplyFlagOverrides(t *testing.T) {
	viper.Reset()
	cfg := loadConfig()

	cmd := &cobra.Command{}
	cmd.Flags().String("catalog", "", "")
	cmd.Flags().Int("width", 0, "")
	cmd.Flags().Int("stars", 0, "")
	cmd.Flags().Bool("no-vsync", false, "")
	cmd.Flags().Bool("no-lod", false, "")
	cmd.Flags().Bool("profile", false, "")
	require.NoError(t, cmd.ParseFlags([]string{
		"--catalog", "bodies.toml",
		"--width", "1920",
		"--stars", "0",
		"--no-vsync",
		"--no-lod",
		"--profile",
	}))

	applyFlagOverrides(cmd, &cfg)

	assert.Equal(t, "bodies.toml", cfg.CatalogPath)
	assert.Equal(t, 1920, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	assert.Zero(t, cfg.StarCount)
	assert.False(t, cfg.VSync)
	assert.False(t, cfg.LOD)
	assert.True(t, cfg.Profiling)
	assert.True(t, cfg.Animations)
}

func TestApplyFlagOverridesLeavesDefaultsWhenUnset(t *testing.T) {
	viper.Reset()
	cfg := loadConfig()

	cmd := &cobra.Command{}
	cmd.Flags().Int("stars", 0, "")
	require.NoError(t, cmd.ParseFlags(nil))

	applyFlagOverrides(cmd, &cfg)

	assert.Equal(t, scene.DefaultStarCount, cfg.StarCount)
	assert.True(t, cfg.VSync)
	assert.True(t, cfg.LOD)
}

func TestSummarize(t *testing.T) {
	out := summarize(catalog.DefaultSolarSystem())
	assert.Equal(t, "9 bodies (1 star, 8 planets, 0 moons)", out)
}

func TestLoadCatalogFallsBackToBuiltIn(t *testing.T) {
	records, err := loadCatalog("")
	require.NoError(t, err)
	assert.Len(t, records, 9)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := loadCatalog(t.TempDir() + "/absent.toml")
	require.Error(t, err)
}
