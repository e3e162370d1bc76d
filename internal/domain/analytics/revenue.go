package analytics

import (
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/shopspring/decimal"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TrendOf derives the trend from the sign of a growth percentage.
func TrendOf(growth float64) Trend {
	switch {
	case growth > 0:
		return TrendUp
	case growth < 0:
		return TrendDown
	default:
		return TrendStable
	}
}

type RevenueMetrics struct {
	Total   float64 `json:"total"`
	Monthly float64 `json:"monthly"`
	Growth  float64 `json:"growth"`
	Trend   Trend   `json:"trend"`
}

// realized sums the amounts of paid payments.
func realized(payments []models.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentPaid {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// CalculateRevenue reports all-time realized revenue next to the current
// window's realized revenue and its change against the previous window.
func CalculateRevenue(payments Partition[models.Payment]) RevenueMetrics {
	current := realized(payments.Current)
	g := growth(current, realized(payments.Previous))

	return RevenueMetrics{
		Total:   round2(realized(payments.All)),
		Monthly: round2(current),
		Growth:  g,
		Trend:   TrendOf(g),
	}
}
