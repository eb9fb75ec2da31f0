package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracefit/activity-metrics-api/internal/constants"
)

func TestMinettiCost(t *testing.T) {
	// Flat-ground cost is the polynomial's constant term.
	assert.InDelta(t, 3.6, MinettiCost(0), 1e-9)

	// Uphill costs more than flat, downhill less (within moderate grades).
	assert.Greater(t, MinettiCost(0.10), MinettiCost(0))
	assert.Less(t, MinettiCost(-0.10), MinettiCost(0))

	// Grades outside the fitted range are clamped.
	assert.InDelta(t, MinettiCost(0.45), MinettiCost(0.90), 1e-9)
	assert.InDelta(t, MinettiCost(-0.45), MinettiCost(-0.90), 1e-9)
}

func TestNGPFactor(t *testing.T) {
	assert.InDelta(t, 1.0, NGPFactor(0), 1e-9)
	assert.Greater(t, NGPFactor(0.05), 1.0)
	assert.Less(t, NGPFactor(-0.05), 1.0)
}

func TestFlatSpeed(t *testing.T) {
	// On flat ground the speed is unchanged.
	assert.InDelta(t, 3.0, FlatSpeed(3.0, 0), 1e-9)

	// Running uphill at the same speed maps to a faster flat equivalent.
	assert.Greater(t, FlatSpeed(3.0, 0.08), 3.0)
}

func TestThresholdSpeed(t *testing.T) {
	running := ThresholdSpeed(constants.SportRunning)
	assert.InDelta(t, 1000.0/(3.75*60.0), running, 1e-9)

	swimming := ThresholdSpeed(constants.SportSwimming)
	assert.InDelta(t, 100.0/120.0, swimming, 1e-9)

	cycling := ThresholdSpeed(constants.SportCycling)
	assert.Greater(t, cycling, running)

	// Unknown sports use the running threshold.
	assert.InDelta(t, running, ThresholdSpeed("yoga"), 1e-9)
}

func TestIntensityFactor(t *testing.T) {
	assert.InDelta(t, 1.0, IntensityFactor(4.0, 4.0), 1e-9)
	assert.InDelta(t, 0.5, IntensityFactor(2.0, 4.0), 1e-9)
	assert.Equal(t, 0.0, IntensityFactor(2.0, 0))
}

func TestRTSS(t *testing.T) {
	threshold := ThresholdSpeed(constants.SportRunning)

	// One hour at exactly threshold intensity scores 100.
	score := RTSS(3600, threshold, 1.0, threshold)
	assert.InDelta(t, 100.0, score, 1e-9)

	// Half an hour at threshold scores 50.
	half := RTSS(1800, threshold, 1.0, threshold)
	assert.InDelta(t, 50.0, half, 1e-9)

	// Lower intensity scores quadratically less: IF enters once directly
	// and once through the flat speed.
	easy := RTSS(3600, threshold*0.8, 0.8, threshold)
	assert.InDelta(t, 64.0, easy, 1e-9)

	assert.Equal(t, 0.0, RTSS(0, threshold, 1.0, threshold))
	assert.Equal(t, 0.0, RTSS(3600, threshold, 1.0, 0))
}

func TestEstimateEnergy(t *testing.T) {
	// 10 km flat: 3.6 J/(kg*m) * 10000 m / 1000 = 36 kJ/kg.
	energy := EstimateEnergy(10000, 0, 70)
	assert.InDelta(t, 36.0, energy.KilojoulesPerKg, 1e-9)
	assert.InDelta(t, 36.0*70.0/4.184, energy.Kilocalories, 1e-6)

	// Default weight is used when none is provided.
	fallback := EstimateEnergy(10000, 0, 0)
	assert.InDelta(t, 36.0*constants.DefaultAthleteWeight/4.184, fallback.Kilocalories, 1e-6)

	// Uphill costs more.
	uphill := EstimateEnergy(10000, 0.05, 70)
	assert.Greater(t, uphill.Kilocalories, energy.Kilocalories)
}
