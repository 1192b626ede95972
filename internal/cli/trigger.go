package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isoforge/isoforge/internal/trigger"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Fire a build trigger from the command line",
	Long:  "Request a custom image build without going through the web form.",
	Example: `  isoforge trigger --email user@example.org --tag myevent-2026
  isoforge trigger --email user@example.org --tag myevent-2026 --event-url https://example.org/event`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		tag, _ := cmd.Flags().GetString("tag")
		eventURL, _ := cmd.Flags().GetString("event-url")
		processor, _ := cmd.Flags().GetString("processor")

		if email == "" || tag == "" {
			return fmt.Errorf("both --email and --tag are required")
		}
		if processor == "" {
			processor = cfg.Trigger.Processor
		}

		trig, err := newTrigger()
		if err != nil {
			return err
		}

		req := trigger.Request{
			Email:     email,
			Tag:       tag,
			EventURL:  eventURL,
			Script:    cfg.Trigger.API.Script,
			Processor: processor,
		}

		if err := trig.Fire(context.Background(), req); err != nil {
			return fmt.Errorf("trigger failed: %w", err)
		}

		fmt.Printf("Build triggered for tag %s (backend: %s)\n", tag, trig.Name())
		return nil
	},
}

func init() {
	triggerCmd.Flags().String("email", "", "email address to receive the download link")
	triggerCmd.Flags().String("tag", "", "build tag (becomes the release tag)")
	triggerCmd.Flags().String("event-url", "", "optional event page URL")
	triggerCmd.Flags().String("processor", "", "target architecture (defaults to the configured one)")
	rootCmd.AddCommand(triggerCmd)
}
