package models

import (
	"fmt"
	"sort"
)

// Sample is a single telemetry point of an activity. Fields are pointers
// because payloads frequently omit channels (no heart rate strap, GPS not
// locked yet) and a missing value must stay distinguishable from zero.
type Sample struct {
	TimerDurationInSeconds *float64 `json:"timerDurationInSeconds,omitempty"`
	TotalDistanceInMeters  *float64 `json:"totalDistanceInMeters,omitempty"`
	SpeedMetersPerSecond   *float64 `json:"speedMetersPerSecond,omitempty"`
	HeartRate              *float64 `json:"heartRate,omitempty"`
	ElevationInMeters      *float64 `json:"elevationInMeters,omitempty"`
	LatitudeInDegree       *float64 `json:"latitudeInDegree,omitempty"`
	LongitudeInDegree      *float64 `json:"longitudeInDegree,omitempty"`

	// DistanceDiff and SecondsDiff are computed against the previous raw
	// sample during extraction. The first sample keeps its own cumulative
	// values as diffs.
	DistanceDiff *float64 `json:"distanceDiff,omitempty"`
	SecondsDiff  *float64 `json:"secondsDiff,omitempty"`
}

// HasCoordinates reports whether the sample carries a full GPS fix.
func (s *Sample) HasCoordinates() bool {
	return s.LatitudeInDegree != nil && s.LongitudeInDegree != nil
}

// SampleSeries is the cleaned, ordered telemetry of one activity.
type SampleSeries struct {
	// Samples are the cleaned samples in payload order.
	Samples []*Sample `json:"samples"`

	// RawCount is the number of samples before cleaning.
	RawCount int `json:"raw_count"`
}

// Len returns the number of cleaned samples.
func (ss *SampleSeries) Len() int {
	return len(ss.Samples)
}

// numeric coerces a decoded JSON value to a float64. Payload versions have
// carried numbers both as JSON numbers and as strings.
func numeric(v interface{}) *float64 {
	switch val := v.(type) {
	case float64:
		f := val
		return &f
	case int:
		f := float64(val)
		return &f
	case string:
		var f float64
		if _, err := fmt.Sscanf(val, "%g", &f); err == nil {
			return &f
		}
	}
	return nil
}

// decodeSample builds a Sample from one decoded payload sample object.
func decodeSample(raw map[string]interface{}) *Sample {
	return &Sample{
		TimerDurationInSeconds: numeric(raw["timerDurationInSeconds"]),
		TotalDistanceInMeters:  numeric(raw["totalDistanceInMeters"]),
		SpeedMetersPerSecond:   numeric(raw["speedMetersPerSecond"]),
		HeartRate:              numeric(raw["heartRate"]),
		ElevationInMeters:      numeric(raw["elevationInMeters"]),
		LatitudeInDegree:       numeric(raw["latitudeInDegree"]),
		LongitudeInDegree:      numeric(raw["longitudeInDegree"]),
	}
}

// ExtractSamples pulls the samples array out of an activity detail object
// and cleans it:
//
//  1. Distance and timer diffs are computed against the previous raw
//     sample; the first sample keeps its own cumulative values.
//  2. Samples whose distance diff is missing or not positive are dropped
//     (paused timer, duplicate points).
//  3. A missing or zero speed is recomputed as distanceDiff/secondsDiff
//     when the time diff is positive.
//
// Order is preserved throughout. A detail without a samples array yields
// an empty series, not an error.
func ExtractSamples(detail map[string]interface{}) *SampleSeries {
	series := &SampleSeries{}
	if detail == nil {
		return series
	}

	rawList, ok := detail["samples"].([]interface{})
	if !ok {
		return series
	}

	raw := make([]*Sample, 0, len(rawList))
	for _, item := range rawList {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		raw = append(raw, decodeSample(obj))
	}
	series.RawCount = len(raw)

	// Diffs are taken over the raw sequence so a dropped sample does not
	// fold its distance into the next one.
	for i, s := range raw {
		if i == 0 {
			s.DistanceDiff = s.TotalDistanceInMeters
			s.SecondsDiff = s.TimerDurationInSeconds
			continue
		}
		prev := raw[i-1]
		if s.TotalDistanceInMeters != nil && prev.TotalDistanceInMeters != nil {
			d := *s.TotalDistanceInMeters - *prev.TotalDistanceInMeters
			s.DistanceDiff = &d
		}
		if s.TimerDurationInSeconds != nil && prev.TimerDurationInSeconds != nil {
			d := *s.TimerDurationInSeconds - *prev.TimerDurationInSeconds
			s.SecondsDiff = &d
		}
	}

	cleaned := make([]*Sample, 0, len(raw))
	for _, s := range raw {
		if s.DistanceDiff == nil || *s.DistanceDiff <= 0 {
			continue
		}
		if s.SpeedMetersPerSecond == nil || *s.SpeedMetersPerSecond == 0 {
			if s.SecondsDiff != nil && *s.SecondsDiff > 0 {
				speed := *s.DistanceDiff / *s.SecondsDiff
				s.SpeedMetersPerSecond = &speed
			}
		}
		cleaned = append(cleaned, s)
	}

	series.Samples = cleaned
	return series
}

// QualityReport flags data problems that make derived metrics unreliable.
type QualityReport struct {
	SampleCount     int      `json:"sample_count"`
	RawCount        int      `json:"raw_count"`
	CoordinateCount int      `json:"coordinate_count"`
	TimerMonotonic  bool     `json:"timer_monotonic"`
	Warnings        []string `json:"warnings,omitempty"`
}

// AssessQuality inspects a cleaned series and reports warnings:
//
//   - fewer than 20 samples,
//   - a timer that runs backwards anywhere in the series,
//   - no GPS coordinates at all, or fewer than max(5, 20% of samples).
func AssessQuality(series *SampleSeries) *QualityReport {
	report := &QualityReport{
		SampleCount:    series.Len(),
		RawCount:       series.RawCount,
		TimerMonotonic: true,
	}

	n := series.Len()
	if n < 20 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("activity has only %d samples; data may be incomplete", n))
	}

	var prevTimer *float64
	for _, s := range series.Samples {
		if s.TimerDurationInSeconds != nil {
			if prevTimer != nil && *s.TimerDurationInSeconds < *prevTimer {
				report.TimerMonotonic = false
			}
			prevTimer = s.TimerDurationInSeconds
		}
		if s.HasCoordinates() {
			report.CoordinateCount++
		}
	}

	if !report.TimerMonotonic {
		report.Warnings = append(report.Warnings,
			"timer duration is not monotonically increasing; samples may be out of order")
	}

	minCoords := 5
	if n/5 > minCoords {
		minCoords = n / 5
	}
	if report.CoordinateCount == 0 {
		report.Warnings = append(report.Warnings,
			"activity has no GPS coordinates; the track cannot be shown")
	} else if report.CoordinateCount < minCoords {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("activity has few valid coordinates (%d of %d samples)",
				report.CoordinateCount, n))
	}

	return report
}

// TrackPoint is one GPS fix on the activity track.
type TrackPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Track extracts the GPS track from a cleaned series, skipping samples
// without a full fix.
func (ss *SampleSeries) Track() []TrackPoint {
	track := make([]TrackPoint, 0, len(ss.Samples))
	for _, s := range ss.Samples {
		if !s.HasCoordinates() {
			continue
		}
		track = append(track, TrackPoint{
			Latitude:  *s.LatitudeInDegree,
			Longitude: *s.LongitudeInDegree,
		})
	}
	return track
}

// Speeds returns the positive speed values of the series, sorted ascending.
// Non-positive and missing speeds are excluded.
func (ss *SampleSeries) Speeds() []float64 {
	speeds := make([]float64, 0, len(ss.Samples))
	for _, s := range ss.Samples {
		if s.SpeedMetersPerSecond != nil && *s.SpeedMetersPerSecond > 0 {
			speeds = append(speeds, *s.SpeedMetersPerSecond)
		}
	}
	sort.Float64s(speeds)
	return speeds
}

// HeartRates returns the positive heart rate values in sample order.
func (ss *SampleSeries) HeartRates() []float64 {
	rates := make([]float64, 0, len(ss.Samples))
	for _, s := range ss.Samples {
		if s.HeartRate != nil && *s.HeartRate > 0 {
			rates = append(rates, *s.HeartRate)
		}
	}
	return rates
}

// ActivitySummaryData is the summary object embedded in an activity detail
// payload with the aggregates Garmin computed device-side.
type ActivitySummaryData struct {
	DurationInSeconds           *float64 `json:"durationInSeconds,omitempty"`
	DistanceInMeters            *float64 `json:"distanceInMeters,omitempty"`
	TotalElevationGainInMeters  *float64 `json:"totalElevationGainInMeters,omitempty"`
	TotalElevationLossInMeters  *float64 `json:"totalElevationLossInMeters,omitempty"`
	AverageSpeedMetersPerSecond *float64 `json:"averageSpeedInMetersPerSecond,omitempty"`
	AverageHeartRate            *float64 `json:"averageHeartRateInBeatsPerMinute,omitempty"`
	ActivityType                string   `json:"activityType,omitempty"`
}

// ExtractSummary decodes the summary object of an activity detail. A detail
// without a summary yields an empty struct.
func ExtractSummary(detail map[string]interface{}) *ActivitySummaryData {
	summary := &ActivitySummaryData{}
	if detail == nil {
		return summary
	}

	obj, ok := detail["summary"].(map[string]interface{})
	if !ok {
		return summary
	}

	summary.DurationInSeconds = numeric(obj["durationInSeconds"])
	summary.DistanceInMeters = numeric(obj["distanceInMeters"])
	summary.TotalElevationGainInMeters = numeric(obj["totalElevationGainInMeters"])
	summary.TotalElevationLossInMeters = numeric(obj["totalElevationLossInMeters"])
	summary.AverageSpeedMetersPerSecond = numeric(obj["averageSpeedInMetersPerSecond"])
	summary.AverageHeartRate = numeric(obj["averageHeartRateInBeatsPerMinute"])
	if t, ok := obj["activityType"].(string); ok {
		summary.ActivityType = t
	}

	return summary
}
