package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		var health struct {
			Status   string `json:"status"`
			Version  string `json:"version"`
			Database string `json:"database"`
		}
		if err := getJSON("/health", &health); err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}

		fmt.Printf("Status:   %s\n", health.Status)
		fmt.Printf("Version:  %s\n", health.Version)
		fmt.Printf("Database: %s\n", health.Database)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
