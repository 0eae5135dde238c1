package portfolio

// Pure valuation arithmetic shared by the consolidation and refresh paths.
// Inputs are assumed finite (see toFloat/sanitize); outputs keep full
// precision, rounding happens only where values leave the engine.

// changeAndPercent returns the absolute and relative change of current over
// basis. A zero basis yields a zero percent rather than a non-finite value,
// so division-by-zero can never leak into persisted data.
func changeAndPercent(current, basis float64) (change, percent float64) {
	change = current - basis
	if basis != 0 {
		percent = change / basis * 100
	}
	return change, percent
}

func totalValue(quantity, price float64) float64 {
	return quantity * price
}

func totalGain(value, invested float64) float64 {
	return value - invested
}

// gainPercent is 0 when nothing was invested.
func gainPercent(gain, invested float64) float64 {
	if invested <= 0 {
		return 0
	}
	return gain / invested * 100
}

// weightedAvg derives a per-unit cost basis from a running invested amount.
func weightedAvg(invested, quantity float64) float64 {
	if quantity <= 0 {
		return 0
	}
	return invested / quantity
}
