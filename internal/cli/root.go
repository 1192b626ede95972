package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isoforge/isoforge/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "isoforge",
	Short: "Custom live-image build trigger service",
	Long: `isoforge serves the image customization form and relays
submissions to the CI provider that builds the custom live ISO.

It can also fire a build trigger or check a release directly from the
command line.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load config: %v\n", err)
		os.Exit(1)
	}
}
