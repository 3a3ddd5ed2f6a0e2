// Package predict orchestrates a single live risk query: input validation,
// optional geocoding, and score blending against the historical store.
package predict

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/roadwatch/risk-cli/internal/model"
	"github.com/roadwatch/risk-cli/internal/risk"
	"github.com/roadwatch/risk-cli/internal/store"
	"github.com/roadwatch/risk-cli/pkg/geocode"
)

// KeyLastPrediction is the persistence key under which the most recent
// prediction is recorded as an opaque blob.
const KeyLastPrediction = "lastPrediction"

// ErrMissingField is returned when a required live-query field is absent.
// Callers are expected to pre-validate; the engine does not fill defaults
// for live input.
var ErrMissingField = eris.New("predict: missing required field")

// Request is a live query as entered by the user. Location is optional
// free text, resolved through the geocoder when present.
type Request struct {
	Location       string `json:"location,omitempty"`
	Time           string `json:"time"`
	Weather        string `json:"weather"`
	RoadCondition  string `json:"roadCondition"`
	TrafficDensity int    `json:"trafficDensity"`
	PastAccidents  int    `json:"pastAccidents"`
}

// Result is the outcome of one prediction, shaped for any presentation
// layer.
type Result struct {
	Score               int            `json:"score"`
	RiskLevel           string         `json:"risk_level"`
	Recommendations     []string       `json:"recommendations"`
	Coordinates         *geocode.Point `json:"coordinates,omitempty"`
	GeocodingFailed     bool           `json:"geocoding_failed"`
	HistoricalIncidents int            `json:"historical_incidents"`
}

// Predictor composes the geocoder collaborator with the historical store.
type Predictor struct {
	geocoder geocode.Client
	history  *store.Memory
}

// New creates a Predictor. The geocoder may be nil, in which case location
// text is ignored and every prediction takes the unblended path.
func New(geocoder geocode.Client, history *store.Memory) *Predictor {
	return &Predictor{geocoder: geocoder, history: history}
}

// Predict validates the request, resolves its location if possible, and
// scores it. Geocoding failure is not fatal: the prediction degrades to the
// unblended path and the result carries the GeocodingFailed flag.
func (p *Predictor) Predict(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	in := model.PredictionInput{
		Time:           req.Time,
		Weather:        req.Weather,
		RoadCondition:  req.RoadCondition,
		TrafficDensity: req.TrafficDensity,
		PastAccidents:  req.PastAccidents,
	}

	result := &Result{}

	if location := strings.TrimSpace(req.Location); location != "" && p.geocoder != nil {
		pt, err := p.geocoder.Resolve(ctx, location)
		if err != nil {
			result.GeocodingFailed = true
			zap.L().Warn("predict: geocoding failed, using unblended score",
				zap.String("location", location),
				zap.Error(err),
			)
		} else {
			in.Latitude = &pt.Latitude
			in.Longitude = &pt.Longitude
			result.Coordinates = &pt
		}
	}

	history := p.history.Records()
	result.Score = risk.ScoreLive(in, history)
	result.RiskLevel = liveLevel(result.Score)
	result.Recommendations = liveRecommendations(result.Score)
	result.HistoricalIncidents = len(history)

	zap.L().Info("predict: query scored",
		zap.Int("score", result.Score),
		zap.String("risk_level", result.RiskLevel),
		zap.Bool("geocoding_failed", result.GeocodingFailed),
		zap.Int("historical_incidents", result.HistoricalIncidents),
	)
	return result, nil
}

func validate(req Request) error {
	for _, f := range []struct{ name, value string }{
		{"time", req.Time},
		{"weather", req.Weather},
		{"roadCondition", req.RoadCondition},
	} {
		if strings.TrimSpace(f.value) == "" {
			return eris.Wrapf(ErrMissingField, "%s", f.name)
		}
	}
	return nil
}

// liveLevel maps a live score to its three-tier label.
func liveLevel(score int) string {
	switch {
	case score < 33:
		return "Low"
	case score < 66:
		return "Moderate"
	default:
		return "High"
	}
}

// liveRecommendations returns the guidance shown with a prediction, from
// most to least urgent.
func liveRecommendations(score int) []string {
	var recs []string
	if score >= 66 {
		recs = append(recs, "Extreme caution advised")
	}
	if score >= 33 {
		recs = append(recs, "Maintain safe distance")
	}
	recs = append(recs, "Follow traffic rules", "Stay alert")
	return recs
}
