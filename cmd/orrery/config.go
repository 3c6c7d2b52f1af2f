package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Carmen-Shannon/orrery/engine/scene"
)

// viewerConfig holds all runtime settings for the viewer binary.
// Values are populated from .orrery.toml, ORRERY_* env vars, and CLI flags.
type viewerConfig struct {
	CatalogPath      string        `mapstructure:"catalog_path"`
	WatchCatalog     bool          `mapstructure:"watch_catalog"`
	WindowTitle      string        `mapstructure:"window_title"`
	WindowWidth      int           `mapstructure:"window_width"`
	WindowHeight     int           `mapstructure:"window_height"`
	VSync            bool          `mapstructure:"vsync"`
	FrameLimit       float64       `mapstructure:"frame_limit"`
	SoftwareRenderer bool          `mapstructure:"software_renderer"`
	StarCount        int           `mapstructure:"star_count"`
	StarSeed         int64         `mapstructure:"star_seed"`
	LOD              bool          `mapstructure:"lod"`
	LODMedium        float64       `mapstructure:"lod_medium"`
	LODLow           float64       `mapstructure:"lod_low"`
	LODVeryLow       float64       `mapstructure:"lod_very_low"`
	Animations       bool          `mapstructure:"animations"`
	Profiling        bool          `mapstructure:"profiling"`
	StatsInterval    time.Duration `mapstructure:"stats_interval"`
	Verbose          bool          `mapstructure:"verbose"`
}

// loadConfig reads configuration from viper, applying built-in defaults for
// any values not set by config file, environment, or flags.
func loadConfig() viewerConfig {
	viper.SetDefault("catalog_path", "")
	viper.SetDefault("watch_catalog", false)
	viper.SetDefault("window_title", "Orrery")
	viper.SetDefault("window_width", 1280)
	viper.SetDefault("window_height", 720)
	viper.SetDefault("vsync", true)
	viper.SetDefault("frame_limit", 0.0)
	viper.SetDefault("software_renderer", false)
	viper.SetDefault("star_count", scene.DefaultStarCount)
	viper.SetDefault("star_seed", scene.DefaultStarfieldSeed)
	viper.SetDefault("lod", true)
	viper.SetDefault("lod_medium", 50.0)
	viper.SetDefault("lod_low", 150.0)
	viper.SetDefault("lod_very_low", 300.0)
	viper.SetDefault("animations", true)
	viper.SetDefault("profiling", false)
	viper.SetDefault("stats_interval", "1s")
	viper.SetDefault("verbose", false)

	var cfg viewerConfig
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// applyFlagOverrides applies CLI flag values to the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *viewerConfig) {
	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v, _ := cmd.Flags().GetBool("watch"); v {
		cfg.WatchCatalog = true
	}
	if v, _ := cmd.Flags().GetInt("width"); v > 0 {
		cfg.WindowWidth = v
	}
	if v, _ := cmd.Flags().GetInt("height"); v > 0 {
		cfg.WindowHeight = v
	}
	if v, _ := cmd.Flags().GetFloat64("frame-limit"); v > 0 {
		cfg.FrameLimit = v
	}
	if cmd.Flags().Changed("stars") {
		v, _ := cmd.Flags().GetInt("stars")
		cfg.StarCount = v
	}
	if v, _ := cmd.Flags().GetBool("no-vsync"); v {
		cfg.VSync = false
	}
	if v, _ := cmd.Flags().GetBool("no-lod"); v {
		cfg.LOD = false
	}
	if v, _ := cmd.Flags().GetBool("no-animations"); v {
		cfg.Animations = false
	}
	if v, _ := cmd.Flags().GetBool("software"); v {
		cfg.SoftwareRenderer = true
	}
	if v, _ := cmd.Flags().GetBool("profile"); v {
		cfg.Profiling = true
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
}
