package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/roadwatch/risk-cli/internal/predict"
	"github.com/roadwatch/risk-cli/internal/store"
	"github.com/roadwatch/risk-cli/pkg/geocode"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score accident risk for current conditions",
	Long: `Score accident risk for a single set of live conditions. With --file,
the historical dataset is loaded first and nearby incidents (within 1 km
of the geocoded --location) pull the score toward their average.

Examples:
  # Score conditions alone
  predict --time 18:30 --weather rainy --road poor --traffic 85

  # Blend with history around a location
  predict --time 22:00 --weather foggy --road moderate \
    --location "Market Street, San Francisco" --file incidents.csv`,
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.String("time", "", "time of travel, HH:MM (required)")
	f.String("weather", "", "weather condition: clear, rainy, foggy, snowy (required)")
	f.String("road", "", "road condition: good, moderate, poor (required)")
	f.Int("traffic", 50, "traffic density, 0-100")
	f.Int("accidents", 0, "past accidents at this spot")
	f.String("location", "", "free-text location to geocode")
	f.String("file", "", "historical dataset for proximity blending")
	f.Bool("save", false, "record the prediction in the local store")
	f.String("db", "", "store path (default from config)")

	_ = predictCmd.MarkFlagRequired("time")
	_ = predictCmd.MarkFlagRequired("weather")
	_ = predictCmd.MarkFlagRequired("road")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	timeOfDay, _ := cmd.Flags().GetString("time")
	weather, _ := cmd.Flags().GetString("weather")
	road, _ := cmd.Flags().GetString("road")
	traffic, _ := cmd.Flags().GetInt("traffic")
	accidents, _ := cmd.Flags().GetInt("accidents")
	location, _ := cmd.Flags().GetString("location")
	filePath, _ := cmd.Flags().GetString("file")

	history := store.NewMemory()
	if filePath != "" {
		records, err := loadDataset(filePath)
		if err != nil {
			return err
		}
		history.Replace(records)
	}

	var geocoder geocode.Client
	if location != "" {
		geocoder = newGeocoder()
	}

	p := predict.New(geocoder, history)
	result, err := p.Predict(ctx, predict.Request{
		Location:       location,
		Time:           timeOfDay,
		Weather:        weather,
		RoadCondition:  road,
		TrafficDensity: traffic,
		PastAccidents:  accidents,
	})
	if err != nil {
		return eris.Wrap(err, "predict")
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		dbPath, _ := cmd.Flags().GetString("db")
		kv, err := openKV(ctx, dbPath)
		if err != nil {
			return err
		}
		defer kv.Close()

		if err := savePrediction(ctx, kv, result); err != nil {
			return err
		}
		fmt.Println("Prediction saved to store")
	}

	printPrediction(result)
	return nil
}

func printPrediction(r *predict.Result) {
	fmt.Printf("Risk score: %d / 100\n", r.Score)
	fmt.Printf("Risk level: %s\n", r.RiskLevel)
	if r.Coordinates != nil {
		fmt.Printf("Location:   %.4f, %.4f\n", r.Coordinates.Latitude, r.Coordinates.Longitude)
	}
	if r.GeocodingFailed {
		fmt.Println("Location could not be resolved; score is unblended.")
	}
	if r.HistoricalIncidents > 0 {
		fmt.Printf("Historical incidents considered: %d\n", r.HistoricalIncidents)
	}
	fmt.Println("\nRecommendations:")
	for _, rec := range r.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}
