package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roadwatch/risk-cli/internal/analytics"
)

var (
	exportFilePath string
	exportDBPath   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Persist the high-risk area export",
	Long: `Score every record in a historical dataset and persist the resulting
high-risk area export to the local store, where the serve endpoints read
it back.

Examples:
  export --file incidents.csv
  export --file incidents.json --db /var/lib/risk/kv.db`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := loadDataset(exportFilePath)
		if err != nil {
			return err
		}

		kv, err := openKV(ctx, exportDBPath)
		if err != nil {
			return err
		}
		defer kv.Close()

		now := time.Now()
		areas := analytics.BuildExport(records, now)
		if err := analytics.PersistExport(ctx, kv, areas, now); err != nil {
			return eris.Wrap(err, "export")
		}

		zap.L().Info("export complete",
			zap.Int("areas", len(areas)),
			zap.String("file", exportFilePath),
		)
		fmt.Printf("Exported %d high-risk areas\n", len(areas))
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFilePath, "file", "", "path to CSV or JSON dataset (required)")
	f.StringVar(&exportDBPath, "db", "", "store path (default from config)")
	_ = exportCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(exportCmd)
}
