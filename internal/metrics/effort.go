package metrics

import (
	"math"

	"github.com/tracefit/activity-metrics-api/internal/constants"
)

// Sport-specific threshold speeds in m/s. Running and swimming thresholds
// come from reference paces (3:45 min/km and 2:00 min/100m); the cycling
// value approximates the speed a rider holds at functional threshold power
// on flat ground.
const (
	// ThresholdPaceRunning is the running threshold pace in min/km.
	ThresholdPaceRunning = 3.75

	// ThresholdSwimSecondsPer100m is the swimming threshold, 2:00 per 100m.
	ThresholdSwimSecondsPer100m = 120.0

	// ThresholdCyclingSpeedMps approximates flat-ground speed at 200W.
	ThresholdCyclingSpeedMps = 9.2
)

// minettiGradeLimit bounds the grade fed into the polynomial; the model was
// fitted on grades between -45% and +45% and diverges outside that range.
const minettiGradeLimit = 0.45

// MinettiCost returns the metabolic energy cost of running at the given
// grade, in J/(kg*m), using the fifth-order polynomial fitted by Minetti
// et al. (2002). The grade is a fraction (0.10 for 10%) and is clamped to
// the fitted range.
func MinettiCost(grade float64) float64 {
	i := math.Max(-minettiGradeLimit, math.Min(minettiGradeLimit, grade))
	return 155.4*math.Pow(i, 5) -
		30.4*math.Pow(i, 4) -
		43.3*math.Pow(i, 3) +
		46.3*math.Pow(i, 2) +
		19.5*i +
		3.6
}

// NGPFactor returns the normalized graded pace factor for a grade: the
// ratio of the energy cost at that grade to the cost on flat ground.
// Multiplying a speed by this factor yields the flat-ground speed of
// equivalent effort.
func NGPFactor(grade float64) float64 {
	return MinettiCost(grade) / MinettiCost(0)
}

// FlatSpeed converts an actual speed at a grade to the equivalent
// flat-ground speed.
func FlatSpeed(speedMps, grade float64) float64 {
	return speedMps * NGPFactor(grade)
}

// ThresholdSpeed returns the threshold speed in m/s for a sport. Unknown
// sports fall back to the running threshold.
func ThresholdSpeed(sport string) float64 {
	switch sport {
	case constants.SportCycling:
		return ThresholdCyclingSpeedMps
	case constants.SportSwimming:
		return 100.0 / ThresholdSwimSecondsPer100m
	default:
		return PaceToSpeed(ThresholdPaceRunning)
	}
}

// IntensityFactor returns the ratio of a grade-adjusted speed to the
// sport's threshold speed. Returns 0 when the threshold is not positive.
func IntensityFactor(flatSpeedMps, thresholdSpeedMps float64) float64 {
	if thresholdSpeedMps <= 0 {
		return 0
	}
	return flatSpeedMps / thresholdSpeedMps
}

// RTSS computes the running training stress score:
//
//	rTSS = (duration * flatSpeed * IF) / (threshold * 3600) * 100
//
// where duration is in seconds and speeds in m/s. An hour at threshold
// intensity scores 100.
func RTSS(durationSeconds, flatSpeedMps, intensityFactor, thresholdSpeedMps float64) float64 {
	if durationSeconds <= 0 || thresholdSpeedMps <= 0 {
		return 0
	}
	return (durationSeconds * flatSpeedMps * intensityFactor) /
		(thresholdSpeedMps * 3600.0) * 100.0
}

// Energy estimates the energy expended over a distance at a grade.
// The cost model yields J/(kg*m), so:
//
//	kJ/kg = cost(grade) * distance / 1000
//	kcal  = kJ/kg * weight / 4.184
type Energy struct {
	KilojoulesPerKg float64 `json:"kilojoules_per_kg"`
	Kilocalories    float64 `json:"kilocalories"`
}

// EstimateEnergy computes the energy expenditure for a distance at an
// average grade for an athlete of the given weight in kg. A non-positive
// weight falls back to the default athlete weight.
func EstimateEnergy(distanceMeters, grade, weightKg float64) Energy {
	if weightKg <= 0 {
		weightKg = constants.DefaultAthleteWeight
	}
	kjPerKg := MinettiCost(grade) * distanceMeters / 1000.0
	return Energy{
		KilojoulesPerKg: kjPerKg,
		Kilocalories:    kjPerKg * weightKg * KCalPerKilojoule,
	}
}
