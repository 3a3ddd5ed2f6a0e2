// Package model defines the incident record and live query types shared by
// ingestion, scoring, and analytics.
package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// timePattern extracts an H:MM or HH:MM clock reading from a free-form time
// field. Single-digit minutes do not match and invalidate the record.
var timePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// HistoricalRecord is one validated, normalized incident from an uploaded
// dataset. Weather, RoadCondition, and Time are guaranteed non-empty;
// Time is always zero-padded HH:mm.
type HistoricalRecord struct {
	Weather        string   `json:"weather"`
	RoadCondition  string   `json:"roadCondition"`
	Time           string   `json:"time"`
	TrafficDensity int      `json:"trafficDensity"`
	Accidents      int      `json:"accidents"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Location       string   `json:"location,omitempty"`
}

// Hour returns the hour-of-day parsed from the normalized Time field.
func (r HistoricalRecord) Hour() int {
	h, _ := strconv.Atoi(strings.SplitN(r.Time, ":", 2)[0])
	return h
}

// HasCoordinates reports whether the record carries a resolved position.
func (r HistoricalRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// PredictionInput is a single live query. It is transient and never stored.
// Time, Weather, and RoadCondition are required; the orchestrator validates
// them before scoring.
type PredictionInput struct {
	Time           string   `json:"time"`
	Weather        string   `json:"weather"`
	RoadCondition  string   `json:"roadCondition"`
	TrafficDensity int      `json:"trafficDensity"`
	PastAccidents  int      `json:"pastAccidents"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// Hour returns the hour-of-day parsed from the input's time field.
func (in PredictionInput) Hour() int {
	h, _ := strconv.Atoi(strings.SplitN(in.Time, ":", 2)[0])
	return h
}

// HasCoordinates reports whether the query position was resolved.
func (in PredictionInput) HasCoordinates() bool {
	return in.Latitude != nil && in.Longitude != nil
}

const (
	// DefaultTrafficDensity fills in when the field is absent or unparsable.
	DefaultTrafficDensity = 50
	// DefaultAccidents fills in when the field is absent or unparsable.
	DefaultAccidents = 0
)

// NormalizeRecord converts one raw field mapping into a HistoricalRecord.
// Weather and road condition are lower-cased, the time field must contain an
// H:MM or HH:MM reading (reformatted to HH:mm), traffic density defaults to
// 50 and accidents to 0 on parse failure. A record missing weather, road
// condition, or a parsable time is rejected.
func NormalizeRecord(raw map[string]string) (HistoricalRecord, error) {
	rec := HistoricalRecord{
		Weather:       strings.ToLower(strings.TrimSpace(raw["weather"])),
		RoadCondition: strings.ToLower(strings.TrimSpace(raw["roadCondition"])),
		Location:      strings.TrimSpace(raw["location"]),
	}

	if rec.Weather == "" {
		return HistoricalRecord{}, eris.New("model: missing weather")
	}
	if rec.RoadCondition == "" {
		return HistoricalRecord{}, eris.New("model: missing roadCondition")
	}

	t, err := normalizeTime(raw["time"])
	if err != nil {
		return HistoricalRecord{}, err
	}
	rec.Time = t

	rec.TrafficDensity = parseBounded(raw["trafficDensity"], DefaultTrafficDensity, 0, 100)
	rec.Accidents = parseBounded(raw["accidents"], DefaultAccidents, 0, -1)

	if lat, ok := parseFloat(raw["latitude"]); ok {
		rec.Latitude = &lat
	}
	if lon, ok := parseFloat(raw["longitude"]); ok {
		rec.Longitude = &lon
	}

	return rec, nil
}

// normalizeTime extracts a clock reading and zero-pads it to HH:mm.
func normalizeTime(s string) (string, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return "", eris.Errorf("model: no H:MM time in %q", s)
	}
	hour := m[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	return fmt.Sprintf("%s:%s", hour, m[2]), nil
}

// parseBounded parses an integer field, substituting def on failure and
// clamping to [min, max]. A max below min disables the upper bound.
func parseBounded(s string, def, min, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	if n < min {
		n = min
	}
	if max >= min && n > max {
		n = max
	}
	return n
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
