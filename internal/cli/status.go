package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoforge/isoforge/internal/release"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether a build's ISO has been published",
	Example: `  isoforge status --tag myevent-2026`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		if tag == "" {
			return fmt.Errorf("--tag is required")
		}

		checker := release.NewChecker(cfg.Release.BaseURL, cfg.Release.ISOPrefix, 0)

		status, url, err := checker.Check(context.Background(), tag)
		if err != nil {
			return fmt.Errorf("status check failed: %w", err)
		}

		switch status {
		case release.StatusBuilt:
			fmt.Printf("Build successful\n%s\n", url)
		case release.StatusBuilding:
			fmt.Println("ISO is building")
		default:
			fmt.Println("Unable to reach the release server")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().String("tag", "", "build tag to check")
	rootCmd.AddCommand(statusCmd)
}
