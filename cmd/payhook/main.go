package main

import (
	"os"

	"github.com/spf13/cobra"

	"payhook/internal/interfaces/cli/migrate"
	"payhook/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "payhook",
		Short: "Payhook - payment webhook and session API",
		Long:  `Payhook verifies and dispatches payment provider webhooks and creates checkout sessions and payment intents.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
