package analytics

import (
	"sort"
	"strings"

	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/shopspring/decimal"
)

const (
	UnknownCity  = "Unknown"
	TopCityLimit = 10
)

type CityMetrics struct {
	City       string  `json:"city"`
	Properties int     `json:"properties"`
	Revenue    float64 `json:"revenue"`
}

type GeographicMetrics struct {
	TopCities []CityMetrics `json:"topCities"`
}

type cityBucket struct {
	city       string
	properties int
	revenue    decimal.Decimal
}

// CalculateGeography groups properties by city and attributes the current
// window's realized revenue to cities.
//
// There is no property-to-payment join here: the window revenue is split
// evenly across every property and each city gets its property count times
// that share.
func CalculateGeography(properties []models.Property, currentPayments []models.Payment) GeographicMetrics {
	buckets := make([]*cityBucket, 0)
	byCity := make(map[string]*cityBucket)

	for _, p := range properties {
		city := p.City
		if strings.TrimSpace(city) == "" {
			city = UnknownCity
		}
		b, ok := byCity[city]
		if !ok {
			b = &cityBucket{city: city}
			byCity[city] = b
			buckets = append(buckets, b)
		}
		b.properties++
	}

	perProperty := mean(realized(currentPayments), len(properties))
	for _, b := range buckets {
		b.revenue = perProperty.Mul(decimal.NewFromInt(int64(b.properties)))
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].revenue.GreaterThan(buckets[j].revenue)
	})
	if len(buckets) > TopCityLimit {
		buckets = buckets[:TopCityLimit]
	}

	top := make([]CityMetrics, 0, len(buckets))
	for _, b := range buckets {
		top = append(top, CityMetrics{
			City:       b.city,
			Properties: b.properties,
			Revenue:    round2(b.revenue),
		})
	}

	return GeographicMetrics{TopCities: top}
}
