// Package metrics derives training metrics from cleaned activity telemetry:
// pace and speed conversions, grade-adjusted effort based on the Minetti
// energy cost model, intensity factor, running training stress (rTSS),
// energy expenditure, and distribution statistics.
package metrics

import (
	"fmt"
	"math"
)

// Unit conversion factors.
const (
	// MetersPerSecondToKPH converts m/s to km/h.
	MetersPerSecondToKPH = 3.6

	// KCalPerKilojoule converts kilojoules to kilocalories.
	KCalPerKilojoule = 1.0 / 4.184
)

// SpeedToPace converts a speed in m/s to a pace in minutes per kilometer.
// Non-positive speeds yield 0.
func SpeedToPace(speedMps float64) float64 {
	if speedMps <= 0 {
		return 0
	}
	return 1000.0 / (speedMps * 60.0)
}

// PaceToSpeed converts a pace in minutes per kilometer to a speed in m/s.
// Non-positive paces yield 0.
func PaceToSpeed(paceMinPerKM float64) float64 {
	if paceMinPerKM <= 0 {
		return 0
	}
	return 1000.0 / (paceMinPerKM * 60.0)
}

// KPH converts a speed in m/s to km/h.
func KPH(speedMps float64) float64 {
	return speedMps * MetersPerSecondToKPH
}

// ParsePace parses a "m:ss" pace string into minutes per kilometer.
func ParsePace(raw string) (float64, error) {
	var minutes, seconds int
	if _, err := fmt.Sscanf(raw, "%d:%d", &minutes, &seconds); err != nil {
		return 0, fmt.Errorf("invalid pace %q: expected m:ss", raw)
	}
	if minutes < 0 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid pace %q: expected m:ss", raw)
	}
	return float64(minutes) + float64(seconds)/60.0, nil
}

// FormatPace renders a pace in minutes per kilometer as "m:ss /km".
// Zero and negative paces render as a dash.
func FormatPace(paceMinPerKM float64) string {
	if paceMinPerKM <= 0 || math.IsNaN(paceMinPerKM) || math.IsInf(paceMinPerKM, 0) {
		return "-"
	}
	minutes := int(paceMinPerKM)
	seconds := int(math.Round((paceMinPerKM - float64(minutes)) * 60))
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d /km", minutes, seconds)
}

// Grade computes the average grade of an activity as net elevation change
// over distance. Returns 0 when the distance is not positive.
func Grade(elevationGainMeters, elevationLossMeters, distanceMeters float64) float64 {
	if distanceMeters <= 0 {
		return 0
	}
	return (elevationGainMeters - elevationLossMeters) / distanceMeters
}
