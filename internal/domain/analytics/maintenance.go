package analytics

import (
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/shopspring/decimal"
)

type MaintenanceMetrics struct {
	Total                 int     `json:"total"`
	Completed             int     `json:"completed"`
	Pending               int     `json:"pending"`
	AverageResolutionTime float64 `json:"averageResolutionTime"`
	TotalCost             float64 `json:"totalCost"`
}

// cost prefers the actual cost and falls back to the estimate. Tickets
// with neither are left out of the total instead of counting as zero.
func cost(r models.MaintenanceRequest) (decimal.Decimal, bool) {
	if r.ActualCost.Valid {
		return r.ActualCost.Decimal, true
	}
	if r.EstimatedCost.Valid {
		return r.EstimatedCost.Decimal, true
	}
	return decimal.Zero, false
}

// CalculateMaintenance reports ticket throughput, spend and the average
// number of days completed tickets took from creation to last update.
func CalculateMaintenance(requests []models.MaintenanceRequest) MaintenanceMetrics {
	m := MaintenanceMetrics{Total: len(requests)}

	total := decimal.Zero
	days := decimal.Zero
	for _, r := range requests {
		switch r.Status {
		case models.MaintenanceCompleted:
			m.Completed++
			hours := decimal.NewFromFloat(r.UpdatedAt.Sub(r.CreatedAt).Hours())
			days = days.Add(hours.Div(decimal.NewFromInt(24)))
		case models.MaintenancePending, models.MaintenanceInProgress:
			m.Pending++
		}
		if c, ok := cost(r); ok {
			total = total.Add(c)
		}
	}

	m.TotalCost = round2(total)
	m.AverageResolutionTime = round2(mean(days, m.Completed))

	return m
}
