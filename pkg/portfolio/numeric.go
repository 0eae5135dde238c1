package portfolio

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// toFloat coerces arbitrary decoded JSON input into a finite float64, falling
// back to def when the value is missing, unparseable, or non-finite. This is
// the single point where malformed external input becomes safe arithmetic
// input; all downstream math assumes its output.
func toFloat(v any, def float64) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	return sanitize(f, def)
}

// sanitize guards already-typed float64 fields against NaN and Inf.
func sanitize(f, def float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// round2 rounds to two decimal places through decimal arithmetic, avoiding the
// usual float epsilon surprises at the presentation boundary.
func round2(v float64) float64 {
	return decimal.NewFromFloat(sanitize(v, 0)).Round(2).InexactFloat64()
}
