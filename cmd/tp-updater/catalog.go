package main

import (
	"fmt"

	"github.com/dvrpc/tp-updater/internal/catalog"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [file]",
	Short: "Validate and print the indicator catalog",
	Long: `Validate and print the indicator catalog.

With no argument the configured catalog-path is used, or the built-in catalog
when none is set. Exit status is non-zero if the catalog is invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			path = cfg.CatalogPath
		}

		cat, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("invalid catalog: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "catalog %s (%d indicators)\n", cat.Version(), cat.Len())
		for _, name := range cat.Names() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
