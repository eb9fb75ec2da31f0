package metrics

import (
	"sort"
)

// Quartiles summarizes the distribution of a positive-valued series.
type Quartiles struct {
	Count  int     `json:"count"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// CleanQuartiles filters a series down to its positive values and returns
// the quartiles of what remains. Returns nil when no positive values exist.
func CleanQuartiles(values []float64) *Quartiles {
	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	if len(positive) == 0 {
		return nil
	}
	sort.Float64s(positive)

	return &Quartiles{
		Count:  len(positive),
		Q1:     quantile(positive, 0.25),
		Median: quantile(positive, 0.50),
		Q3:     quantile(positive, 0.75),
		Max:    positive[len(positive)-1],
	}
}

// quantile computes the p-quantile of sorted values with linear
// interpolation between closest ranks.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n-1)
	lower := int(pos)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Zone is a half-open value range [Lo, Hi). A nil bound leaves that side
// open.
type Zone struct {
	Name string   `json:"name"`
	Lo   *float64 `json:"lo,omitempty"`
	Hi   *float64 `json:"hi,omitempty"`
}

// ZoneDuration reports the time accumulated inside one zone.
type ZoneDuration struct {
	Zone    Zone    `json:"zone"`
	Seconds float64 `json:"seconds"`
	Minutes float64 `json:"minutes"`
	Percent float64 `json:"percent"`
}

// contains reports whether a value falls in the zone.
func (z Zone) contains(v float64) bool {
	if z.Lo != nil && v < *z.Lo {
		return false
	}
	if z.Hi != nil && v >= *z.Hi {
		return false
	}
	return true
}

// TimeInZones buckets per-sample durations by the zone their value falls
// into. values and seconds run in parallel; samples with a non-positive
// duration are skipped. Zones are checked in order and a value lands in
// the first zone containing it.
func TimeInZones(values, seconds []float64, zones []Zone) []ZoneDuration {
	result := make([]ZoneDuration, len(zones))
	for i, z := range zones {
		result[i].Zone = z
	}

	n := len(values)
	if len(seconds) < n {
		n = len(seconds)
	}

	total := 0.0
	for i := 0; i < n; i++ {
		if seconds[i] <= 0 {
			continue
		}
		for j, z := range zones {
			if z.contains(values[i]) {
				result[j].Seconds += seconds[i]
				total += seconds[i]
				break
			}
		}
	}

	for i := range result {
		result[i].Minutes = result[i].Seconds / 60.0
		if total > 0 {
			result[i].Percent = result[i].Seconds / total * 100.0
		}
	}

	return result
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
