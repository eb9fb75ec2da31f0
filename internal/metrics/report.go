package metrics

import (
	"strings"

	"github.com/tracefit/activity-metrics-api/internal/constants"
	"github.com/tracefit/activity-metrics-api/internal/models"
)

// Report is the full set of metrics derived for one activity.
type Report struct {
	Sport string `json:"sport"`

	DurationSeconds float64 `json:"duration_seconds"`
	DistanceMeters  float64 `json:"distance_meters"`
	Grade           float64 `json:"grade"`

	AverageSpeedMps float64 `json:"average_speed_mps"`
	AverageSpeedKPH float64 `json:"average_speed_kph"`
	AveragePace     string  `json:"average_pace"`

	FlatSpeedMps      float64 `json:"flat_speed_mps"`
	ThresholdSpeedMps float64 `json:"threshold_speed_mps"`
	IntensityFactor   float64 `json:"intensity_factor"`
	RTSS              float64 `json:"rtss"`

	Energy Energy `json:"energy"`

	SpeedQuartiles     *Quartiles     `json:"speed_quartiles,omitempty"`
	HeartRateQuartiles *Quartiles     `json:"heart_rate_quartiles,omitempty"`
	TimeInSpeedZones   []ZoneDuration `json:"time_in_speed_zones,omitempty"`

	Quality *models.QualityReport `json:"quality,omitempty"`
}

// InferSport maps a payload activity type to one of the supported sports.
// Unknown types default to running.
func InferSport(activityType string) string {
	t := strings.ToLower(activityType)
	switch {
	case strings.Contains(t, "cycl"), strings.Contains(t, "bik"), strings.Contains(t, "rid"):
		return constants.SportCycling
	case strings.Contains(t, "swim"):
		return constants.SportSwimming
	default:
		return constants.SportRunning
	}
}

// speedZoneFractions are the intensity-factor boundaries of the speed
// zones, as fractions of threshold speed.
var speedZoneFractions = []struct {
	name string
	lo   float64
	hi   float64
}{
	{"recovery", 0, 0.70},
	{"endurance", 0.70, 0.85},
	{"tempo", 0.85, 0.95},
	{"threshold", 0.95, 1.05},
	{"vo2max", 1.05, 0},
}

// SpeedZones builds the speed zones for a threshold speed.
func SpeedZones(thresholdSpeedMps float64) []Zone {
	zones := make([]Zone, 0, len(speedZoneFractions))
	for _, f := range speedZoneFractions {
		z := Zone{Name: f.name}
		if f.lo > 0 {
			lo := f.lo * thresholdSpeedMps
			z.Lo = &lo
		}
		if f.hi > 0 {
			hi := f.hi * thresholdSpeedMps
			z.Hi = &hi
		}
		zones = append(zones, z)
	}
	return zones
}

// Compute derives the full metrics report for an activity from its cleaned
// series, summary aggregates, and the athlete's weight in kg. Missing
// summary fields are reconstructed from the series where possible. A
// non-empty sportOverride replaces the sport inferred from the payload.
func Compute(series *models.SampleSeries, summary *models.ActivitySummaryData, weightKg float64, sportOverride string) *Report {
	sport := summary.ActivityType
	if sportOverride != "" {
		sport = sportOverride
	}

	report := &Report{
		Sport:   InferSport(sport),
		Quality: models.AssessQuality(series),
	}

	report.DurationSeconds = summaryOrSeriesDuration(summary, series)
	report.DistanceMeters = summaryOrSeriesDistance(summary, series)

	gain, loss := 0.0, 0.0
	if summary.TotalElevationGainInMeters != nil {
		gain = *summary.TotalElevationGainInMeters
	}
	if summary.TotalElevationLossInMeters != nil {
		loss = *summary.TotalElevationLossInMeters
	}
	report.Grade = Grade(gain, loss, report.DistanceMeters)

	if summary.AverageSpeedMetersPerSecond != nil && *summary.AverageSpeedMetersPerSecond > 0 {
		report.AverageSpeedMps = *summary.AverageSpeedMetersPerSecond
	} else if report.DurationSeconds > 0 {
		report.AverageSpeedMps = report.DistanceMeters / report.DurationSeconds
	}
	report.AverageSpeedKPH = KPH(report.AverageSpeedMps)
	report.AveragePace = FormatPace(SpeedToPace(report.AverageSpeedMps))

	report.ThresholdSpeedMps = ThresholdSpeed(report.Sport)
	report.FlatSpeedMps = FlatSpeed(report.AverageSpeedMps, report.Grade)
	report.IntensityFactor = IntensityFactor(report.FlatSpeedMps, report.ThresholdSpeedMps)
	report.RTSS = RTSS(report.DurationSeconds, report.FlatSpeedMps,
		report.IntensityFactor, report.ThresholdSpeedMps)

	report.Energy = EstimateEnergy(report.DistanceMeters, report.Grade, weightKg)

	report.SpeedQuartiles = CleanQuartiles(series.Speeds())
	report.HeartRateQuartiles = CleanQuartiles(series.HeartRates())

	speeds, seconds := seriesSpeedDurations(series)
	report.TimeInSpeedZones = TimeInZones(speeds, seconds, SpeedZones(report.ThresholdSpeedMps))

	return report
}

// summaryOrSeriesDuration prefers the summary duration and falls back to
// the last timer value in the series.
func summaryOrSeriesDuration(summary *models.ActivitySummaryData, series *models.SampleSeries) float64 {
	if summary.DurationInSeconds != nil && *summary.DurationInSeconds > 0 {
		return *summary.DurationInSeconds
	}
	for i := series.Len() - 1; i >= 0; i-- {
		if t := series.Samples[i].TimerDurationInSeconds; t != nil && *t > 0 {
			return *t
		}
	}
	return 0
}

// summaryOrSeriesDistance prefers the summary distance and falls back to
// the last cumulative distance in the series.
func summaryOrSeriesDistance(summary *models.ActivitySummaryData, series *models.SampleSeries) float64 {
	if summary.DistanceInMeters != nil && *summary.DistanceInMeters > 0 {
		return *summary.DistanceInMeters
	}
	for i := series.Len() - 1; i >= 0; i-- {
		if d := series.Samples[i].TotalDistanceInMeters; d != nil && *d > 0 {
			return *d
		}
	}
	return 0
}

// seriesSpeedDurations returns the per-sample speed and duration pairs used
// for zone bucketing.
func seriesSpeedDurations(series *models.SampleSeries) ([]float64, []float64) {
	speeds := make([]float64, 0, series.Len())
	seconds := make([]float64, 0, series.Len())
	for _, s := range series.Samples {
		if s.SpeedMetersPerSecond == nil || s.SecondsDiff == nil {
			continue
		}
		speeds = append(speeds, *s.SpeedMetersPerSecond)
		seconds = append(seconds, *s.SecondsDiff)
	}
	return speeds, seconds
}
