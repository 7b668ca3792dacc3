package main

import (
	"Nutrition-Tracker/cmd/config"
	migration "Nutrition-Tracker/cmd/database/migrate"
	"Nutrition-Tracker/cmd/database/seed"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var withSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			if err := migration.Migrate(db); err != nil {
				return err
			}
			if withSeed {
				return seed.Seed(cmd.Context(), db)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "insert default diets and categories after migrating")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert default diets and meal categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			return seed.Seed(cmd.Context(), db)
		},
	}
}
