package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lumina",
	Short: "Lumina blog and shop backend",
	Long: `Lumina serves the accounts, blog, shop and checkout API.

Configuration is read from the environment, optionally preloaded from the
file named by ENV_FILE (default .env).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createStaffCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
