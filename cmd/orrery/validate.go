package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/orrery/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog]",
	Short: "Check a catalog file without opening a window",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if len(args) > 0 {
			cfg.CatalogPath = args[0]
		}

		if cfg.CatalogPath == "" {
			records := catalog.DefaultSolarSystem()
			fmt.Printf("✓ built-in catalog: %s\n", summarize(records))
			return nil
		}

		records, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ %s: %s\n", cfg.CatalogPath, summarize(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// summarize renders a one-line body count breakdown.
func summarize(records []catalog.Record) string {
	var stars, planets, moons int
	for _, r := range records {
		switch r.Type {
		case catalog.TypeStar:
			stars++
		case catalog.TypePlanet:
			planets++
		case catalog.TypeMoon:
			moons++
		}
	}
	return fmt.Sprintf("%d bodies (%d star, %d planets, %d moons)", len(records), stars, planets, moons)
}
