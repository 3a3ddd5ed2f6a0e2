package risk

import (
	"math"

	"github.com/roadwatch/risk-cli/internal/model"
)

// Blend proportions when historical influence applies.
const (
	currentFactorShare       = 0.7
	historicalInfluenceShare = 0.3
)

// ScoreHistorical scores one stored incident on a 0–1 scale. It is tolerant:
// empty fields contribute nothing and unrecognized categories weigh 1.
func ScoreHistorical(rec model.HistoricalRecord) float64 {
	var score float64

	if rec.Weather != "" {
		score += WeatherWeight(rec.Weather) * 10
	}
	if rec.RoadCondition != "" {
		score += RoadWeight(rec.RoadCondition) * 10
	}
	if rec.Time != "" {
		score += PeriodWeight(PeriodForHour(rec.Hour())) * 10
	}
	score += float64(rec.TrafficDensity) / 10
	score += math.Min(float64(rec.Accidents)*2, 10)

	return clamp100(math.Round(score)) / 100
}

// ScoreLive scores a live query on a 0–100 scale. The caller must have
// validated that time, weather, and road condition are set. When history is
// non-empty and the query carries resolved coordinates, the base score is
// blended 70/30 with the location influence of nearby incidents; otherwise
// the base score stands alone.
func ScoreLive(in model.PredictionInput, history []model.HistoricalRecord) int {
	score := WeatherWeight(in.Weather)*10 +
		RoadWeight(in.RoadCondition)*10 +
		PeriodWeight(PeriodForHour(in.Hour()))*10 +
		float64(in.TrafficDensity)/10 +
		math.Min(float64(in.PastAccidents)*2, 10)

	if len(history) > 0 && in.HasCoordinates() {
		influence := LocationInfluence(in, history)
		score = score*currentFactorShare + influence*historicalInfluenceShare
	}

	return int(clamp100(math.Round(score)))
}

func clamp100(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}
