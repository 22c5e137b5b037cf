package commands

import (
	"Supermarket-Vision-Backend/internal/utils"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "supermarket",
		Short: "Supermarket vision backend",
		Long: `Backend for a supermarket front desk: camera product scanning through a
hosted vision model, inventory, checkout with invoices and payments, and a
raw material lookup for dishes.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (utils.Config, error) {
	cfg, err := utils.LoadConfig(cfgFile)
	if err != nil {
		return utils.Config{}, fmt.Errorf("failed to load config %s: %w", cfgFile, err)
	}
	return cfg, nil
}
