package commands

import (
	"Supermarket-Vision-Backend/cmd/config"
	"Supermarket-Vision-Backend/cmd/database/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample products and raw materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := config.ConnectDB(cfg)
		if err != nil {
			return err
		}
		return seed.Run(cmd.Context(), db)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
