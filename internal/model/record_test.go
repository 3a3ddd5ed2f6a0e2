package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecord_Valid(t *testing.T) {
	rec, err := NormalizeRecord(map[string]string{
		"weather":        "RAINY",
		"roadCondition":  "Poor",
		"time":           "8:15",
		"trafficDensity": "60",
		"accidents":      "3",
		"latitude":       "40.7128",
		"longitude":      "-74.0060",
		"location":       "Main St Bridge",
	})
	require.NoError(t, err)

	assert.Equal(t, "rainy", rec.Weather)
	assert.Equal(t, "poor", rec.RoadCondition)
	assert.Equal(t, "08:15", rec.Time)
	assert.Equal(t, 60, rec.TrafficDensity)
	assert.Equal(t, 3, rec.Accidents)
	assert.Equal(t, "Main St Bridge", rec.Location)
	require.True(t, rec.HasCoordinates())
	assert.InDelta(t, 40.7128, *rec.Latitude, 1e-9)
	assert.InDelta(t, -74.0060, *rec.Longitude, 1e-9)
}

func TestNormalizeRecord_Defaults(t *testing.T) {
	rec, err := NormalizeRecord(map[string]string{
		"weather":        "clear",
		"roadCondition":  "good",
		"time":           "departed around 17:45 local",
		"trafficDensity": "not a number",
	})
	require.NoError(t, err)

	assert.Equal(t, "17:45", rec.Time)
	assert.Equal(t, DefaultTrafficDensity, rec.TrafficDensity)
	assert.Equal(t, DefaultAccidents, rec.Accidents)
	assert.False(t, rec.HasCoordinates())
}

func TestNormalizeRecord_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
	}{
		{"missing weather", map[string]string{"roadCondition": "good", "time": "08:00"}},
		{"blank road condition", map[string]string{"weather": "clear", "roadCondition": "  ", "time": "08:00"}},
		{"single digit minute", map[string]string{"weather": "rainy", "roadCondition": "poor", "time": "5:3"}},
		{"no time at all", map[string]string{"weather": "rainy", "roadCondition": "poor", "time": "noonish"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeRecord(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeRecord_BoundsClamped(t *testing.T) {
	rec, err := NormalizeRecord(map[string]string{
		"weather":        "clear",
		"roadCondition":  "good",
		"time":           "12:00",
		"trafficDensity": "250",
		"accidents":      "-4",
	})
	require.NoError(t, err)

	assert.Equal(t, 100, rec.TrafficDensity)
	assert.Equal(t, 0, rec.Accidents)
}

func TestHour(t *testing.T) {
	rec := HistoricalRecord{Time: "21:30"}
	assert.Equal(t, 21, rec.Hour())

	in := PredictionInput{Time: "06:05"}
	assert.Equal(t, 6, in.Hour())
}
