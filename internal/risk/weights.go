// Package risk implements the weighted accident-risk scoring formula and
// the proximity-based historical influence blend.
package risk

// Period is a bucket of the day derived from hour-of-day.
type Period string

// Time periods in ascending start-hour order.
const (
	PeriodMorning   Period = "morning"   // [06, 10)
	PeriodAfternoon Period = "afternoon" // [10, 16)
	PeriodEvening   Period = "evening"   // [16, 20)
	PeriodNight     Period = "night"     // [20, 06)
)

// Fixed multiplier tables. Unrecognized values fall back to 1 so an
// unexpected category never dominates nor zeroes a score.
var (
	weatherWeights = map[string]float64{
		"clear": 1,
		"rainy": 2.5,
		"foggy": 3,
		"snowy": 3.5,
	}

	roadWeights = map[string]float64{
		"good":     1,
		"moderate": 2,
		"poor":     3,
	}

	periodWeights = map[Period]float64{
		PeriodMorning:   1.5,
		PeriodAfternoon: 1,
		PeriodEvening:   2,
		PeriodNight:     2.5,
	}
)

const fallbackWeight = 1

// WeatherWeight returns the multiplier for a weather condition.
func WeatherWeight(condition string) float64 {
	if w, ok := weatherWeights[condition]; ok {
		return w
	}
	return fallbackWeight
}

// RoadWeight returns the multiplier for a road condition.
func RoadWeight(condition string) float64 {
	if w, ok := roadWeights[condition]; ok {
		return w
	}
	return fallbackWeight
}

// PeriodForHour buckets an hour-of-day into a Period. Hours outside the
// morning/afternoon/evening windows, including out-of-range values, are
// night.
func PeriodForHour(hour int) Period {
	switch {
	case hour >= 6 && hour < 10:
		return PeriodMorning
	case hour >= 10 && hour < 16:
		return PeriodAfternoon
	case hour >= 16 && hour < 20:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

// PeriodWeight returns the multiplier for a time period.
func PeriodWeight(p Period) float64 {
	if w, ok := periodWeights[p]; ok {
		return w
	}
	return fallbackWeight
}
