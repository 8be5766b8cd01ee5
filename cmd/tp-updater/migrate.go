package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Apply pending schema migrations to the configured database and exit.

serve applies migrations on start as well; this command is for deploy
pipelines that migrate before rolling out the new binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		// Opening the store runs the migrations.
		st, _, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		current, pending, err := st.MigrationStatus()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%d pending)\n", current, pending)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
