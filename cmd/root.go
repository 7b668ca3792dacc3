package main

import (
	"Nutrition-Tracker/internal/utils"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nutrition-tracker",
	Short: "Meal planning and nutrition tracking API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.LoadConfig()
		utils.InitLogger()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newImportCmd())
}
