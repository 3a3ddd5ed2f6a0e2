package risk

import (
	"github.com/roadwatch/risk-cli/internal/geo"
	"github.com/roadwatch/risk-cli/internal/model"
)

// proximityKm is the radius inside which a historical incident influences a
// live query.
const proximityKm = 1.0

// LocationInfluence returns the mean historical risk score, on a 0–100
// scale, of incidents within 1 km of the query point. Records without
// coordinates never qualify. Returns 0 when no incident is close enough.
// The input must carry resolved coordinates.
func LocationInfluence(in model.PredictionInput, history []model.HistoricalRecord) float64 {
	var total float64
	var count int

	for _, rec := range history {
		if !rec.HasCoordinates() {
			continue
		}
		d := geo.DistanceKm(*in.Latitude, *in.Longitude, *rec.Latitude, *rec.Longitude)
		if d > proximityKm {
			continue
		}
		total += ScoreHistorical(rec) * 100
		count++
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}
