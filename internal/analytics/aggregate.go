// Package analytics computes dataset-wide statistics, recommendations, and
// the high-risk export over the historical store.
package analytics

import (
	"math"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roadwatch/risk-cli/internal/model"
	"github.com/roadwatch/risk-cli/internal/risk"
)

// ErrEmptyDataset is returned when analysis is requested before any dataset
// has been ingested.
var ErrEmptyDataset = eris.New("analytics: empty dataset")

// highRiskThreshold marks a historical score (0–100) as a high-risk incident.
const highRiskThreshold = 66

var titleCaser = cases.Title(language.English)

// Report is the derived analytics view over the historical dataset. It is
// recomputed on demand and never cached across store replacement.
type Report struct {
	TotalIncidents    int                 `json:"total_incidents"`
	WeatherCounts     map[string]int      `json:"weather_counts"`
	PeriodCounts      map[risk.Period]int `json:"period_counts"`
	RiskiestWeather   string              `json:"riskiest_weather"`
	RiskiestPeriod    string              `json:"riskiest_period"`
	AvgRiskScore      int                 `json:"avg_risk_score"`
	HighRiskCount     int                 `json:"high_risk_count"`
	HighRiskPct       int                 `json:"high_risk_percentage"`
	AvgTrafficDensity int                 `json:"avg_traffic_density"`
	Recommendations   []string            `json:"recommendations"`
}

// Analyze aggregates the full dataset. Callers must not pass an empty
// dataset; doing so fails with ErrEmptyDataset.
func Analyze(records []model.HistoricalRecord) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	r := &Report{
		TotalIncidents: len(records),
		WeatherCounts:  make(map[string]int),
		PeriodCounts:   make(map[risk.Period]int),
	}

	var weatherOrder []string
	var periodOrder []risk.Period
	var totalScore, totalTraffic float64

	for _, rec := range records {
		score := risk.ScoreHistorical(rec) * 100

		if r.WeatherCounts[rec.Weather] == 0 {
			weatherOrder = append(weatherOrder, rec.Weather)
		}
		r.WeatherCounts[rec.Weather]++

		period := risk.PeriodForHour(rec.Hour())
		if r.PeriodCounts[period] == 0 {
			periodOrder = append(periodOrder, period)
		}
		r.PeriodCounts[period]++

		if score >= highRiskThreshold {
			r.HighRiskCount++
		}
		totalScore += score
		totalTraffic += float64(rec.TrafficDensity)
	}

	n := float64(len(records))
	r.RiskiestWeather = titleCaser.String(plurality(weatherOrder, r.WeatherCounts))
	r.RiskiestPeriod = titleCaser.String(string(plurality(periodOrder, r.PeriodCounts)))
	r.AvgRiskScore = int(math.Round(totalScore / n))
	r.HighRiskPct = int(math.Round(float64(r.HighRiskCount) / n * 100))
	r.AvgTrafficDensity = int(math.Round(totalTraffic / n))
	r.Recommendations = recommendations(r.WeatherCounts, r.PeriodCounts, totalTraffic/n, len(records))

	return r, nil
}

// plurality returns the most frequent key; ties go to the key encountered
// first during the frequency scan.
func plurality[K comparable](order []K, counts map[K]int) K {
	var best K
	bestCount := -1
	for _, k := range order {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

// recommendations emits dataset-level guidance in fixed order. All
// thresholds are strict greater-than.
func recommendations(weather map[string]int, periods map[risk.Period]int, avgTraffic float64, total int) []string {
	var recs []string
	threshold := float64(total) * 0.3

	if float64(weather["rainy"]) > threshold {
		recs = append(recs, "Exercise extra caution during rainy conditions")
	}
	if float64(periods[risk.PeriodNight]) > threshold {
		recs = append(recs, "Avoid night-time travel when possible")
	}
	if avgTraffic > 70 {
		recs = append(recs, "Consider alternative routes during peak hours")
	}
	return recs
}
