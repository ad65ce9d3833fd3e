package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gainworld/travel-guide/cmd/admin/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "travel-guide-admin",
		Short: "Maintenance tool for the Travel Guide API",
		Long:  "CLI tool for database migration and duplicate-place cleanup",
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewCleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
