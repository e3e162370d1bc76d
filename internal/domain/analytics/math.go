package analytics

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// round2 converts a decimal to a float rounded to two places.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// growth returns the percentage change from previous to current. A zero
// previous value has no baseline and reports 0.
func growth(current, previous decimal.Decimal) float64 {
	if !previous.IsPositive() {
		return 0
	}
	return round2(current.Sub(previous).Div(previous).Mul(hundred))
}

func growthCount(current, previous int) float64 {
	return growth(decimal.NewFromInt(int64(current)), decimal.NewFromInt(int64(previous)))
}

// rate returns part/whole as a percentage clamped to [0, 100].
func rate(part, whole int) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	r := decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole)))
	if r.GreaterThan(hundred) {
		r = hundred
	}
	return round2(r)
}

// mean returns sum/count, or zero when there is nothing to average.
func mean(sum decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}
