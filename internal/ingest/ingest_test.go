package ingest

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `weather,roadCondition,time,trafficDensity,accidents,latitude,longitude,location
RAINY,Poor,8:15,80,3,40.7128,-74.0060,Main St
clear,good,14:30,40,0,,,Midtown
Foggy,moderate,22:05,65,1,40.7306,-73.9866,
`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"incidents.csv", FormatCSV, false},
		{"INCIDENTS.CSV", FormatCSV, false},
		{"incidents.json", FormatJSON, false},
		{"incidents.xlsx", "", true},
		{"incidents", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				assert.True(t, eris.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataset_CSV(t *testing.T) {
	records, err := Dataset(strings.NewReader(sampleCSV), FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "rainy", records[0].Weather)
	assert.Equal(t, "poor", records[0].RoadCondition)
	assert.Equal(t, "08:15", records[0].Time)
	assert.Equal(t, 80, records[0].TrafficDensity)
	assert.Equal(t, 3, records[0].Accidents)
	assert.True(t, records[0].HasCoordinates())
	assert.Equal(t, "Main St", records[0].Location)

	assert.False(t, records[1].HasCoordinates())
	assert.Equal(t, "14:30", records[1].Time)
}

func TestDataset_CSVDropsInvalidRows(t *testing.T) {
	csv := "weather,roadCondition,time\n" +
		"rainy,poor,5:3\n" + // single-digit minute: invalid time
		"clear,good,09:00\n" +
		"snowy,,10:00\n" // empty road condition

	records, err := Dataset(strings.NewReader(csv), FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "clear", records[0].Weather)
}

func TestDataset_CSVAllRowsInvalid(t *testing.T) {
	csv := "weather,roadCondition,time\nRAINY,POOR,5:3\n"

	_, err := Dataset(strings.NewReader(csv), FormatCSV)
	assert.True(t, eris.Is(err, ErrNoValidRecords))
}

func TestDataset_CSVShortRows(t *testing.T) {
	csv := "weather,roadCondition,time,trafficDensity\nrainy,poor,08:00\n"

	records, err := Dataset(strings.NewReader(csv), FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Missing positional field falls back to the default.
	assert.Equal(t, 50, records[0].TrafficDensity)
}

func TestDataset_JSON(t *testing.T) {
	body := `[
		{"weather": "Snowy", "roadCondition": "POOR", "time": "23:40",
		 "trafficDensity": 70, "accidents": 4,
		 "latitude": 40.7128, "longitude": -74.006, "location": "FDR Drive"},
		{"weather": "clear", "roadCondition": "good", "time": "11:00"}
	]`

	records, err := Dataset(strings.NewReader(body), FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "snowy", records[0].Weather)
	assert.Equal(t, 70, records[0].TrafficDensity)
	assert.Equal(t, 4, records[0].Accidents)
	require.True(t, records[0].HasCoordinates())
	assert.InDelta(t, 40.7128, *records[0].Latitude, 1e-9)

	assert.Equal(t, 50, records[1].TrafficDensity)
	assert.Equal(t, 0, records[1].Accidents)
}

func TestDataset_JSONNotAnArray(t *testing.T) {
	_, err := Dataset(strings.NewReader(`{"weather": "clear"}`), FormatJSON)
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))
}

func TestDataset_EmptyCSV(t *testing.T) {
	_, err := Dataset(strings.NewReader(""), FormatCSV)
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))
}

func TestDataset_Idempotent(t *testing.T) {
	first, err := Dataset(strings.NewReader(sampleCSV), FormatCSV)
	require.NoError(t, err)
	second, err := Dataset(strings.NewReader(sampleCSV), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
