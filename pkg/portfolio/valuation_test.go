package portfolio

import "testing"

func TestChangeAndPercent(t *testing.T) {
	change, percent := changeAndPercent(120, 100)
	assertFloatEquals(t, change, 20, "change")
	assertFloatEquals(t, percent, 20, "percent")

	change, percent = changeAndPercent(80, 100)
	assertFloatEquals(t, change, -20, "negative change")
	assertFloatEquals(t, percent, -20, "negative percent")
}

func TestChangeAndPercent_ZeroBasis(t *testing.T) {
	// Zero cost basis must yield percent 0, never Inf/NaN.
	change, percent := changeAndPercent(50, 0)
	assertFloatEquals(t, change, 50, "change against zero basis")
	assertFloatEquals(t, percent, 0, "percent against zero basis")
}

func TestTotalValueGain(t *testing.T) {
	value := totalValue(15, 110)
	assertFloatEquals(t, value, 1650, "total value")
	assertFloatEquals(t, totalGain(value, 1600), 50, "total gain")
	assertFloatEquals(t, totalGain(value, 1700), -50, "total loss")
}

func TestGainPercent(t *testing.T) {
	assertFloatEquals(t, gainPercent(50, 1000), 5, "gain percent")
	assertFloatEquals(t, gainPercent(50, 0), 0, "zero invested")
	assertFloatEquals(t, gainPercent(50, -10), 0, "negative invested")
}

func TestWeightedAvg(t *testing.T) {
	assertFloatEquals(t, weightedAvg(1600, 15), 106.6666666666667, "weighted average")
	assertFloatEquals(t, weightedAvg(1600, 0), 0, "zero quantity")
}
