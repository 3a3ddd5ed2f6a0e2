package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/roadwatch/risk-cli/internal/model"
	"github.com/roadwatch/risk-cli/internal/risk"
)

// Persistence keys written by the export. Consumers read them back as
// opaque blobs.
const (
	KeyHighRiskData = "highRiskData"
	KeyLastUpdated  = "lastUpdated"
)

// HighRiskArea is one exported per-record risk summary.
type HighRiskArea struct {
	ID              string      `json:"id"`
	Location        string      `json:"location"`
	RiskLevel       string      `json:"risk_level"`
	RiskScore       int         `json:"risk_score"`
	RiskFactors     RiskFactors `json:"risk_factors"`
	Latitude        *float64    `json:"latitude,omitempty"`
	Longitude       *float64    `json:"longitude,omitempty"`
	Timestamp       time.Time   `json:"timestamp"`
	Recommendations []string    `json:"recommendations"`
}

// RiskFactors is the denormalized factor summary carried by each export
// record, in display form.
type RiskFactors struct {
	TrafficDensity      string `json:"traffic_density"`
	WeatherCondition    string `json:"weather_condition"`
	RoadCondition       string `json:"road_condition"`
	TimeOfDay           string `json:"time_of_day"`
	HistoricalIncidents int    `json:"historical_incidents"`
}

// RiskLevel maps a 0–100 score to its four-tier export label.
func RiskLevel(score int) string {
	switch {
	case score >= 80:
		return "Very High"
	case score >= 60:
		return "High"
	case score >= 40:
		return "Medium"
	default:
		return "Low"
	}
}

// BuildExport produces one HighRiskArea per stored record, stamped with the
// generation time.
func BuildExport(records []model.HistoricalRecord, now time.Time) []HighRiskArea {
	areas := make([]HighRiskArea, 0, len(records))

	for _, rec := range records {
		score := int(math.Round(risk.ScoreHistorical(rec) * 100))
		period := risk.PeriodForHour(rec.Hour())

		location := rec.Location
		if location == "" {
			location = "Unknown Location"
		}

		areas = append(areas, HighRiskArea{
			ID:        uuid.New().String(),
			Location:  location,
			RiskLevel: RiskLevel(score),
			RiskScore: score,
			RiskFactors: RiskFactors{
				TrafficDensity:      fmt.Sprintf("%d%%", rec.TrafficDensity),
				WeatherCondition:    titleCaser.String(rec.Weather),
				RoadCondition:       titleCaser.String(rec.RoadCondition),
				TimeOfDay:           titleCaser.String(string(period)),
				HistoricalIncidents: rec.Accidents,
			},
			Latitude:        rec.Latitude,
			Longitude:       rec.Longitude,
			Timestamp:       now,
			Recommendations: recordRecommendations(score, rec),
		})
	}

	return areas
}

// recordRecommendations generates per-record guidance in fixed order.
func recordRecommendations(score int, rec model.HistoricalRecord) []string {
	var recs []string

	if score >= 60 {
		recs = append(recs, "Extreme caution required in this area")
	}
	switch rec.Weather {
	case "rainy", "snowy", "foggy":
		recs = append(recs, fmt.Sprintf("Exercise additional caution during %s conditions", rec.Weather))
	}
	if rec.RoadCondition == "poor" {
		recs = append(recs, "Reduce speed due to poor road conditions")
	}
	if rec.TrafficDensity > 70 {
		recs = append(recs, "Consider alternative routes during peak hours")
	}
	if rec.Accidents > 2 {
		recs = append(recs, "Area has history of multiple incidents")
	}
	if hour := rec.Hour(); hour >= 20 || hour <= 5 {
		recs = append(recs, "Extra vigilance required during night-time travel")
	}

	return recs
}

// PersistExport serializes the export and hands it to the key-value
// collaborator under the fixed keys.
func PersistExport(ctx context.Context, kv KVPutter, areas []HighRiskArea, now time.Time) error {
	blob, err := json.Marshal(areas)
	if err != nil {
		return eris.Wrap(err, "analytics: marshal export")
	}

	if err := kv.Put(ctx, KeyHighRiskData, string(blob)); err != nil {
		return eris.Wrap(err, "analytics: persist export")
	}
	if err := kv.Put(ctx, KeyLastUpdated, now.UTC().Format(time.RFC3339)); err != nil {
		return eris.Wrap(err, "analytics: persist timestamp")
	}

	zap.L().Info("analytics: export persisted",
		zap.Int("areas", len(areas)),
	)
	return nil
}

// KVPutter is the write surface of the persistence collaborator.
type KVPutter interface {
	Put(ctx context.Context, key, value string) error
}
