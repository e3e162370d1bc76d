// Package analytics turns snapshots of operational rows into the reporting
// summary shown on the admin and owner dashboards. Everything here is a pure
// function of its inputs and the supplied period.
package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"golang.org/x/sync/errgroup"
)

var ErrMalformedSnapshot = errors.New("malformed analytics snapshot")

// Snapshot holds the rows of every entity taken at one point in time.
type Snapshot struct {
	Users       []models.User
	Properties  []models.Property
	Tenancies   []models.Tenancy
	Payments    []models.Payment
	Maintenance []models.MaintenanceRequest
}

type Summary struct {
	Revenue     RevenueMetrics     `json:"revenue"`
	Users       UserMetrics        `json:"users"`
	Properties  PropertyMetrics    `json:"properties"`
	Payments    PaymentMetrics     `json:"payments"`
	Maintenance MaintenanceMetrics `json:"maintenance"`
	Geographic  GeographicMetrics  `json:"geographic"`
}

// Validate rejects rows whose enum fields fall outside their closed sets.
func (s Snapshot) Validate() error {
	for _, u := range s.Users {
		if !u.Role.Valid() {
			return fmt.Errorf("%w: user %s has role %q", ErrMalformedSnapshot, u.ID, u.Role)
		}
	}
	for _, p := range s.Properties {
		if !p.Status.Valid() {
			return fmt.Errorf("%w: property %s has status %q", ErrMalformedSnapshot, p.ID, p.Status)
		}
	}
	for _, t := range s.Tenancies {
		if !t.Status.Valid() {
			return fmt.Errorf("%w: tenancy %s has status %q", ErrMalformedSnapshot, t.ID, t.Status)
		}
	}
	for _, p := range s.Payments {
		if !p.Status.Valid() {
			return fmt.Errorf("%w: payment %s has status %q", ErrMalformedSnapshot, p.ID, p.Status)
		}
	}
	for _, m := range s.Maintenance {
		if !m.Status.Valid() {
			return fmt.Errorf("%w: maintenance request %s has status %q", ErrMalformedSnapshot, m.ID, m.Status)
		}
	}
	return nil
}

// Compute partitions the snapshot by period and runs every calculator.
// The calculators share no mutable state and run concurrently.
func Compute(s Snapshot, period Period) (*Summary, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	users := PartitionBy(s.Users, period, func(u models.User) time.Time { return u.CreatedAt })
	properties := PartitionBy(s.Properties, period, func(p models.Property) time.Time { return p.CreatedAt })
	payments := PartitionBy(s.Payments, period, func(p models.Payment) time.Time { return p.CreatedAt })

	summary := &Summary{}
	var g errgroup.Group

	g.Go(func() error {
		summary.Revenue = CalculateRevenue(payments)
		return nil
	})
	g.Go(func() error {
		summary.Users = CalculateUsers(users)
		return nil
	})
	g.Go(func() error {
		summary.Properties = CalculateProperties(properties, s.Tenancies)
		return nil
	})
	g.Go(func() error {
		summary.Payments = CalculatePayments(payments.All)
		return nil
	})
	g.Go(func() error {
		summary.Maintenance = CalculateMaintenance(s.Maintenance)
		return nil
	})
	g.Go(func() error {
		summary.Geographic = CalculateGeography(properties.All, payments.Current)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summary, nil
}
