package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/risk-cli/internal/model"
)

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Very High"},
		{80, "Very High"},
		{79, "High"},
		{60, "High"},
		{59, "Medium"},
		{40, "Medium"},
		{39, "Low"},
		{0, "Low"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevel(tt.score), "score %d", tt.score)
	}
}

func TestBuildExport(t *testing.T) {
	lat, lon := 40.7128, -74.0060
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

	records := []model.HistoricalRecord{
		{
			// snowy 35 + poor 30 + night 25 + 8 + 6 = 104 → 100
			Weather: "snowy", RoadCondition: "poor", Time: "23:15",
			TrafficDensity: 80, Accidents: 3,
			Latitude: &lat, Longitude: &lon, Location: "Harbor Tunnel",
		},
		{
			// clear 10 + good 10 + afternoon 10 + 3 = 33
			Weather: "clear", RoadCondition: "good", Time: "13:00",
			TrafficDensity: 30,
		},
	}

	areas := BuildExport(records, now)
	require.Len(t, areas, 2)

	high := areas[0]
	assert.NotEmpty(t, high.ID)
	assert.Equal(t, "Harbor Tunnel", high.Location)
	assert.Equal(t, 100, high.RiskScore)
	assert.Equal(t, "Very High", high.RiskLevel)
	assert.Equal(t, "80%", high.RiskFactors.TrafficDensity)
	assert.Equal(t, "Snowy", high.RiskFactors.WeatherCondition)
	assert.Equal(t, "Poor", high.RiskFactors.RoadCondition)
	assert.Equal(t, "Night", high.RiskFactors.TimeOfDay)
	assert.Equal(t, 3, high.RiskFactors.HistoricalIncidents)
	assert.Equal(t, now, high.Timestamp)
	assert.Equal(t, []string{
		"Extreme caution required in this area",
		"Exercise additional caution during snowy conditions",
		"Reduce speed due to poor road conditions",
		"Consider alternative routes during peak hours",
		"Area has history of multiple incidents",
		"Extra vigilance required during night-time travel",
	}, high.Recommendations)

	low := areas[1]
	assert.Equal(t, "Unknown Location", low.Location)
	assert.Equal(t, 33, low.RiskScore)
	assert.Equal(t, "Low", low.RiskLevel)
	assert.Nil(t, low.Latitude)
	assert.Empty(t, low.Recommendations)
}

type fakeKV struct {
	puts map[string]string
}

func (f *fakeKV) Put(_ context.Context, key, value string) error {
	if f.puts == nil {
		f.puts = make(map[string]string)
	}
	f.puts[key] = value
	return nil
}

func TestPersistExport(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	areas := BuildExport([]model.HistoricalRecord{
		{Weather: "rainy", RoadCondition: "poor", Time: "21:00", TrafficDensity: 90, Accidents: 5},
	}, now)

	kv := &fakeKV{}
	require.NoError(t, PersistExport(context.Background(), kv, areas, now))

	assert.Equal(t, "2026-08-28T09:30:00Z", kv.puts[KeyLastUpdated])

	var decoded []HighRiskArea
	require.NoError(t, json.Unmarshal([]byte(kv.puts[KeyHighRiskData]), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, areas[0].RiskScore, decoded[0].RiskScore)
}
