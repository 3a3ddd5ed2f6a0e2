package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/roadwatch/risk-cli/internal/analytics"
)

var (
	analyzeFilePath string
	analyzeFormat   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute dataset-wide risk analytics",
	Long: `Ingest a historical incident dataset and print the aggregate view:
incident counts by weather and time of day, the riskiest conditions,
average risk score, high-risk share, and dataset-level recommendations.

Examples:
  # Human-readable summary
  analyze --file incidents.csv

  # Machine-readable output
  analyze --file incidents.json --format json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if analyzeFormat != "table" && analyzeFormat != "json" {
			return eris.Errorf("analyze: --format must be table or json (got %q)", analyzeFormat)
		}

		records, err := loadDataset(analyzeFilePath)
		if err != nil {
			return err
		}

		report, err := analytics.Analyze(records)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		if analyzeFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(report), "analyze: encode report")
		}

		printReport(report)
		return nil
	},
}

func printReport(r *analytics.Report) {
	fmt.Printf("Total incidents:     %d\n", r.TotalIncidents)
	fmt.Printf("Average risk score:  %d / 100\n", r.AvgRiskScore)
	fmt.Printf("High risk:           %d (%d%%)\n", r.HighRiskCount, r.HighRiskPct)
	fmt.Printf("Avg traffic density: %d%%\n", r.AvgTrafficDensity)
	fmt.Printf("Riskiest weather:    %s\n", r.RiskiestWeather)
	fmt.Printf("Riskiest period:     %s\n", r.RiskiestPeriod)

	fmt.Println("\nIncidents by weather:")
	for weather, count := range r.WeatherCounts {
		fmt.Printf("  %-12s %d\n", weather, count)
	}
	fmt.Println("\nIncidents by period:")
	for period, count := range r.PeriodCounts {
		fmt.Printf("  %-12s %d\n", period, count)
	}

	if len(r.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range r.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFilePath, "file", "", "path to CSV or JSON dataset (required)")
	f.StringVar(&analyzeFormat, "format", "table", "output format: table or json")
	_ = analyzeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(analyzeCmd)
}
