package analytics

import (
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/shopspring/decimal"
)

type PaymentMetrics struct {
	Total         int     `json:"total"`
	Successful    int     `json:"successful"`
	Failed        int     `json:"failed"`
	Pending       int     `json:"pending"`
	SuccessRate   float64 `json:"successRate"`
	AverageAmount float64 `json:"averageAmount"`
}

// CalculatePayments reports payment health over every payment ever made.
func CalculatePayments(payments []models.Payment) PaymentMetrics {
	m := PaymentMetrics{Total: len(payments)}

	paid := decimal.Zero
	for _, p := range payments {
		switch p.Status {
		case models.PaymentPaid:
			m.Successful++
			paid = paid.Add(p.Amount)
		case models.PaymentFailed:
			m.Failed++
		case models.PaymentPending:
			m.Pending++
		}
	}

	m.SuccessRate = rate(m.Successful, m.Total)
	m.AverageAmount = round2(mean(paid, m.Successful))

	return m
}
