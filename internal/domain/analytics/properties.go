package analytics

import (
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/shopspring/decimal"
)

type PropertyMetrics struct {
	Total         int     `json:"total"`
	Active        int     `json:"active"`
	OccupancyRate float64 `json:"occupancyRate"`
	AverageRent   float64 `json:"averageRent"`
	Growth        float64 `json:"growth"`
}

// CalculateProperties reports the portfolio size and occupancy.
//
// Occupancy treats one active tenancy as one occupied property; unit counts
// of multi-unit properties are not part of the formula.
func CalculateProperties(properties Partition[models.Property], tenancies []models.Tenancy) PropertyMetrics {
	m := PropertyMetrics{
		Total:  len(properties.All),
		Growth: growthCount(len(properties.Current), len(properties.Previous)),
	}

	rent := decimal.Zero
	for _, p := range properties.All {
		if p.Status == models.PropertyActive {
			m.Active++
		}
		rent = rent.Add(p.MonthlyRent)
	}
	m.AverageRent = round2(mean(rent, m.Total))

	activeTenancies := 0
	for _, t := range tenancies {
		if t.Status == models.TenancyActive {
			activeTenancies++
		}
	}
	m.OccupancyRate = rate(activeTenancies, m.Total)

	return m
}
