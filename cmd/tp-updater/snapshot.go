package main

import (
	"fmt"

	"github.com/dvrpc/tp-updater/internal/snapshot"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write one snapshot of the DuckDB overlay database",
	Long: `Write one snapshot of the DuckDB overlay database to snapshot-dir and
prune old copies beyond snapshot-keep. Postgres deployments should use
pg_dump instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		st, _, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		sc := snapshotConfig(cfg)
		sc.Enabled = true
		m, err := snapshot.NewManager(st, sc)
		if err != nil {
			return err
		}
		path, err := m.RunOnce()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
