// Package seed fills an empty database with a demo rental portfolio so the
// dashboards have something to show in development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/propertyease/propertyease/internal/infrastructure/database"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrAlreadySeeded = errors.New("database already contains demo data")

const AdminEmail = "admin@propertyease.test"

var cities = []struct{ city, province string }{
	{"Quezon City", "Metro Manila"},
	{"Makati", "Metro Manila"},
	{"Taguig", "Metro Manila"},
	{"Cebu City", "Cebu"},
	{"Davao City", "Davao del Sur"},
	{"Baguio", "Benguet"},
	{"Iloilo City", "Iloilo"},
	{"", ""},
}

var paymentMethods = []string{"gcash", "bank_transfer", "cash", "paymaya"}

type Options struct {
	Owners             int
	PropertiesPerOwner int
	// Months of rent history generated per tenancy
	Months int
	Now    time.Time
	Seed   int64
	// Progress receives a progress bar; nil disables it
	Progress io.Writer
}

func DefaultOptions() Options {
	return Options{
		Owners:             8,
		PropertiesPerOwner: 4,
		Months:             14,
		Now:                time.Now().UTC(),
		Seed:               42,
	}
}

// Stats counts the rows a seeding run created.
type Stats struct {
	Users               int
	Properties          int
	Tenancies           int
	Payments            int
	MaintenanceRequests int
}

type seeder struct {
	tx    *gorm.DB
	rng   *rand.Rand
	opts  Options
	stats Stats
}

// Run creates an admin plus opts.Owners owners with their properties,
// tenants, rent history and maintenance tickets in one transaction.
func Run(ctx context.Context, db *database.DB, opts Options) (*Stats, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", AdminEmail).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check for existing seed data: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadySeeded
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(opts.Owners,
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("seeding owners"),
			progressbar.OptionShowCount(),
		)
	}

	s := &seeder{rng: rand.New(rand.NewSource(opts.Seed)), opts: opts}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s.tx = tx

		if _, err := s.user(AdminEmail, models.UserRoleAdmin, opts.Now.AddDate(-2, 0, 0)); err != nil {
			return err
		}

		for i := 0; i < opts.Owners; i++ {
			if err := s.owner(i); err != nil {
				return err
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return &s.stats, nil
}

func (s *seeder) daysAgo(maxDays int) time.Time {
	return s.opts.Now.Add(-time.Duration(s.rng.Intn(maxDays*24)+1) * time.Hour)
}

func (s *seeder) user(email string, role models.UserRole, createdAt time.Time) (*models.User, error) {
	user := &models.User{
		Email:     email,
		FirstName: string(role),
		LastName:  fmt.Sprintf("%04d", s.stats.Users),
		Role:      role,
		IsActive:  s.rng.Intn(10) > 0,
		CreatedAt: createdAt,
	}
	if role == models.UserRoleAdmin {
		user.IsActive = true
	}
	if err := s.tx.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", role, err)
	}
	s.stats.Users++
	return user, nil
}

func (s *seeder) owner(n int) error {
	owner, err := s.user(fmt.Sprintf("owner%d@propertyease.test", n), models.UserRoleOwner, s.daysAgo(700))
	if err != nil {
		return err
	}

	for p := 0; p < s.opts.PropertiesPerOwner; p++ {
		if err := s.property(owner, n, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) property(owner *models.User, ownerN, n int) error {
	location := cities[s.rng.Intn(len(cities))]
	status := models.PropertyActive
	switch s.rng.Intn(10) {
	case 0:
		status = models.PropertyMaintenance
	case 1:
		status = models.PropertyInactive
	}

	property := &models.Property{
		OwnerID:     owner.ID,
		Name:        fmt.Sprintf("Residence %d-%d", ownerN, n),
		Address:     fmt.Sprintf("%d Mabini St", 10+s.rng.Intn(900)),
		City:        location.city,
		Province:    location.province,
		Status:      status,
		TotalUnits:  1 + s.rng.Intn(4),
		MonthlyRent: decimal.NewFromInt(int64(8000 + 500*s.rng.Intn(40))),
		CreatedAt:   s.daysAgo(400),
	}
	if err := s.tx.Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	s.stats.Properties++

	if status != models.PropertyInactive {
		if err := s.tenancy(property, ownerN, n); err != nil {
			return err
		}
	}
	return s.maintenance(property)
}

func (s *seeder) tenancy(property *models.Property, ownerN, n int) error {
	tenant, err := s.user(fmt.Sprintf("tenant%d-%d@propertyease.test", ownerN, n), models.UserRoleTenant, s.daysAgo(400))
	if err != nil {
		return err
	}

	status := models.TenancyActive
	switch s.rng.Intn(8) {
	case 0:
		status = models.TenancyPending
	case 1:
		status = models.TenancyTerminated
	}

	leaseStart := s.opts.Now.AddDate(0, -s.opts.Months, 0)
	tenancy := &models.Tenancy{
		PropertyID: property.ID,
		TenantID:   tenant.ID,
		UnitNumber: fmt.Sprintf("%d%c", 1+s.rng.Intn(5), 'A'+rune(s.rng.Intn(4))),
		Status:     status,
		LeaseStart: &leaseStart,
		CreatedAt:  leaseStart,
	}
	if err := s.tx.Create(tenancy).Error; err != nil {
		return fmt.Errorf("failed to create tenancy: %w", err)
	}
	s.stats.Tenancies++

	if status == models.TenancyPending {
		return nil
	}
	return s.rentHistory(property, tenancy)
}

func (s *seeder) rentHistory(property *models.Property, tenancy *models.Tenancy) error {
	payments := make([]models.Payment, 0, s.opts.Months)
	for m := s.opts.Months; m > 0; m-- {
		due := s.opts.Now.AddDate(0, -m+1, 0).Add(-time.Duration(s.rng.Intn(72)) * time.Hour)
		status := models.PaymentPaid
		switch r := s.rng.Intn(20); {
		case r == 0:
			status = models.PaymentFailed
		case r < 3 || m == 1:
			status = models.PaymentPending
		}

		payment := models.Payment{
			TenancyID:  tenancy.ID,
			PropertyID: property.ID,
			Amount:     property.MonthlyRent,
			Method:     paymentMethods[s.rng.Intn(len(paymentMethods))],
			Type:       "rent",
			Status:     status,
			DueDate:    &due,
			CreatedAt:  due,
		}
		if status == models.PaymentPaid {
			paidAt := due.Add(time.Duration(s.rng.Intn(48)) * time.Hour)
			payment.PaidAt = &paidAt
		}
		payments = append(payments, payment)
	}

	if err := s.tx.Create(&payments).Error; err != nil {
		return fmt.Errorf("failed to create payments: %w", err)
	}
	s.stats.Payments += len(payments)
	return nil
}

func (s *seeder) maintenance(property *models.Property) error {
	statuses := []models.MaintenanceStatus{
		models.MaintenancePending,
		models.MaintenanceInProgress,
		models.MaintenanceCompleted,
		models.MaintenanceCompleted,
		models.MaintenanceCancelled,
	}
	titles := []string{"Leaking faucet", "Broken aircon", "Clogged drain", "Faulty wiring", "Door lock replacement"}

	for i := s.rng.Intn(3); i > 0; i-- {
		createdAt := s.daysAgo(300)
		request := models.MaintenanceRequest{
			PropertyID:    property.ID,
			Title:         titles[s.rng.Intn(len(titles))],
			Priority:      []string{"low", "medium", "high"}[s.rng.Intn(3)],
			Status:        statuses[s.rng.Intn(len(statuses))],
			EstimatedCost: decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(500 + 250*s.rng.Intn(20))), Valid: true},
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		}
		if request.Status == models.MaintenanceCompleted {
			request.UpdatedAt = createdAt.Add(time.Duration(6+s.rng.Intn(24*14)) * time.Hour)
			if s.rng.Intn(2) == 0 {
				request.ActualCost = decimal.NullDecimal{Decimal: request.EstimatedCost.Decimal.Mul(decimal.NewFromFloat(1.1)).Round(2), Valid: true}
			}
		}

		if err := s.tx.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to create maintenance request: %w", err)
		}
		s.stats.MaintenanceRequests++
	}
	return nil
}
