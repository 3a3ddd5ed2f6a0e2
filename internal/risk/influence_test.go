package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadwatch/risk-cli/internal/model"
)

func TestLocationInfluence_MeanOfNearbyScores(t *testing.T) {
	in := model.PredictionInput{
		Latitude:  ptrFloat64(40.7128),
		Longitude: ptrFloat64(-74.0060),
	}
	history := []model.HistoricalRecord{
		{
			// snowy(3.5)·10 + poor(3)·10 + night(2.5)·10 + 50/10 + min(10,10) = 105 → 1.00
			Weather: "snowy", RoadCondition: "poor", Time: "23:00",
			TrafficDensity: 50, Accidents: 9,
			Latitude: ptrFloat64(40.7130), Longitude: ptrFloat64(-74.0062),
		},
		{
			// clear+good+afternoon = 30 → 0.30
			Weather: "clear", RoadCondition: "good", Time: "12:00",
			Latitude: ptrFloat64(40.7125), Longitude: ptrFloat64(-74.0058),
		},
	}

	// (100 + 30) / 2
	assert.InDelta(t, 65.0, LocationInfluence(in, history), 1e-9)
}

func TestLocationInfluence_FarRecordsExcluded(t *testing.T) {
	in := model.PredictionInput{
		Latitude:  ptrFloat64(40.7128),
		Longitude: ptrFloat64(-74.0060),
	}
	history := []model.HistoricalRecord{
		{
			Weather: "snowy", RoadCondition: "poor", Time: "23:00",
			Latitude: ptrFloat64(34.0522), Longitude: ptrFloat64(-118.2437),
		},
	}
	assert.Zero(t, LocationInfluence(in, history))
}

func TestLocationInfluence_RecordsWithoutCoordinatesExcluded(t *testing.T) {
	in := model.PredictionInput{
		Latitude:  ptrFloat64(40.7128),
		Longitude: ptrFloat64(-74.0060),
	}
	history := []model.HistoricalRecord{
		{Weather: "snowy", RoadCondition: "poor", Time: "23:00"},
	}
	assert.Zero(t, LocationInfluence(in, history))
}

func TestLocationInfluence_EmptyHistory(t *testing.T) {
	in := model.PredictionInput{
		Latitude:  ptrFloat64(40.7128),
		Longitude: ptrFloat64(-74.0060),
	}
	assert.Zero(t, LocationInfluence(in, nil))
}
