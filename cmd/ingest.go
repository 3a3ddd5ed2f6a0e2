package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ingestFilePath string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Validate a historical incident dataset",
	Long: `Parse a CSV or JSON incident dataset, normalize its records, and report
what survived validation. Records with an unparseable time are dropped;
missing traffic density and accident counts fall back to defaults.

Examples:
  # Validate a CSV upload
  ingest --file incidents.csv

  # Validate a JSON upload
  ingest --file incidents.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := loadDataset(ingestFilePath)
		if err != nil {
			return err
		}

		zap.L().Info("ingest complete",
			zap.Int("records", len(records)),
			zap.String("file", ingestFilePath),
		)
		fmt.Printf("Ingested %d valid records from %s\n", len(records), ingestFilePath)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFilePath, "file", "", "path to CSV or JSON dataset (required)")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}
