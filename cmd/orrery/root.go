package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "orrery",
	Short: "Interactive 3D solar system viewer",
	Long: "Orrery renders an animated solar system with orbiting bodies, click-to-select,\n" +
		"and an orbit camera. Keys: +/- zoom, R reset view, Space pause, 0-9 focus a body, Esc quit.",
	RunE: runViewer,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .orrery.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.Flags().StringP("catalog", "c", "", "TOML catalog file (default: built-in solar system)")
	rootCmd.Flags().Bool("watch", false, "reload the catalog file when it changes")
	rootCmd.Flags().Int("width", 0, "window width in pixels")
	rootCmd.Flags().Int("height", 0, "window height in pixels")
	rootCmd.Flags().Float64("frame-limit", 0, "cap the render loop at this many frames per second")
	rootCmd.Flags().Int("stars", 0, "background star count (0 disables the starfield)")
	rootCmd.Flags().Bool("no-vsync", false, "present frames without waiting for vertical sync")
	rootCmd.Flags().Bool("no-lod", false, "disable distance-based level of detail")
	rootCmd.Flags().Bool("no-animations", false, "start with orbit and spin animations paused")
	rootCmd.Flags().Bool("software", false, "force the software rendering adapter")
	rootCmd.Flags().Bool("profile", false, "log frame statistics while running")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".orrery")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("ORRERY")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
