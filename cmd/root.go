package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the linearcal application
var rootCmd = &cobra.Command{
	Use:   "linearcal",
	Short: "Syncs Linear issues and projects into Google Calendar",
	Long: `linearcal performs a one-way, idempotent synchronization of Linear
issues and projects into Google Calendar events.

Issues with a due date and projects with a target date become calendar
events carrying an identity tag, so repeated runs update existing events
instead of duplicating them. Nothing is ever deleted.

It can run as:
  - A one-shot sync driven by an external scheduler (default)
  - A long-running daemon with a built-in cron schedule (serve)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "linearcal version %s\n" .Version}}`)

	// If no subcommand is provided, run the sync command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "sync")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
