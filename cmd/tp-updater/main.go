// Command tp-updater serves the Tracking Progress overlay API.
//
// Usage:
//
//	tp-updater serve             # Start the API server
//	tp-updater migrate           # Apply schema migrations and exit
//	tp-updater catalog           # Print the configured indicator catalog
//	tp-updater version           # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tp-updater",
	Short: "Tracking Progress overlay service",
	Long: `tp-updater records which Tracking Progress indicators were recently
updated and serves that list to the dashboard.

A mark lasts 30 days from the last time it was added. Configuration is read
from $HOME/.config/tp-updater/config.yml, TP_UPDATER_* environment variables
and a .env file in the working directory.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tp-updater - Tracking Progress Overlay Service\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is $HOME/.config/tp-updater/config.yml)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
