package main

import (
	"Nutrition-Tracker/cmd/config"
	"Nutrition-Tracker/internal/utils"
	"Nutrition-Tracker/internal/utils/storage"
	"Nutrition-Tracker/pkg/ingredient"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		file      string
		s3Key     string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load an Open Food Facts export into the ingredient catalog",
		Long:  "Reads a tab separated Open Food Facts export, optionally gzipped, from a local file or an S3 object.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (s3Key == "") {
				return errors.New("exactly one of --file or --s3-key is required")
			}

			var (
				src  io.ReadCloser
				name string
			)
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				src, name = f, file
			} else {
				store, err := storage.NewAwsS3(cmd.Context())
				if err != nil {
					return err
				}
				obj, err := store.Open(cmd.Context(), s3Key)
				if err != nil {
					return err
				}
				src, name = obj, s3Key
			}
			defer src.Close()

			db, err := config.ConnectDB()
			if err != nil {
				return err
			}

			importer := ingredient.NewImporter(ingredient.NewIngredientRepository(db), batchSize)
			result, err := importer.Import(cmd.Context(), src, strings.HasSuffix(name, ".gz"))
			if err != nil {
				return err
			}
			utils.Log.WithFields(logrus.Fields{
				"source":   name,
				"read":     result.Read,
				"imported": result.Imported,
				"skipped":  result.Skipped,
			}).Info("import done")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a local export")
	cmd.Flags().StringVar(&s3Key, "s3-key", "", "object key in AWS_S3_BUCKET")
	cmd.Flags().IntVar(&batchSize, "batch", ingredient.DefaultImportBatch, "rows per insert batch")
	return cmd
}
