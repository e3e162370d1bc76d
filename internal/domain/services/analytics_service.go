package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propertyease/propertyease/internal/domain/analytics"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAnalyticsUnavailable = errors.New("analytics are temporarily unavailable")
)

// AnalyticsService builds dashboard reports from the analytics source
type AnalyticsService struct {
	source repositories.AnalyticsSource
	cache  CacheService
	log    *logger.Logger
	now    func() time.Time

	config AnalyticsServiceConfig
}

// AnalyticsServiceConfig holds configuration for analytics
type AnalyticsServiceConfig struct {
	CacheTTL     time.Duration // 0 disables caching
	FetchTimeout time.Duration // 0 means no deadline beyond the caller's
}

// NewAnalyticsService creates a new analytics service. cache may be nil and
// now defaults to time.Now.
func NewAnalyticsService(
	source repositories.AnalyticsSource,
	cache CacheService,
	log *logger.Logger,
	config AnalyticsServiceConfig,
	now func() time.Time,
) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		source: source,
		cache:  cache,
		log:    log,
		now:    now,
		config: config,
	}
}

// ReportPeriod describes the windows a report was computed over.
type ReportPeriod struct {
	Range         analytics.Range `json:"range"`
	CurrentStart  time.Time       `json:"currentStart"`
	PreviousStart time.Time       `json:"previousStart"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// Report is an analytics summary together with the period it covers.
type Report struct {
	Period ReportPeriod `json:"period"`
	analytics.Summary
}

// GetSystemAnalytics reports on the whole platform for the admin dashboard.
func (s *AnalyticsService) GetSystemAnalytics(ctx context.Context, rangeToken string) (*Report, error) {
	return s.report(ctx, repositories.SystemScope(), rangeToken)
}

// GetOwnerAnalytics reports on the portfolio of one owner.
func (s *AnalyticsService) GetOwnerAnalytics(ctx context.Context, ownerID uuid.UUID, rangeToken string) (*Report, error) {
	return s.report(ctx, repositories.OwnerScope(ownerID), rangeToken)
}

func (s *AnalyticsService) report(ctx context.Context, scope repositories.Scope, rangeToken string) (*Report, error) {
	now := s.now()
	period := analytics.ResolvePeriod(rangeToken, now)
	key := fmt.Sprintf(AnalyticsCacheKeyPattern, scope.Key(), period.Range)

	if cached, ok := s.cached(ctx, key); ok {
		return cached, nil
	}

	snapshot, err := s.fetch(ctx, scope)
	if err != nil {
		s.log.Error("Failed to fetch analytics data", "scope", scope.Key(), "range", period.Range, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalyticsUnavailable, err)
	}

	summary, err := analytics.Compute(*snapshot, period)
	if err != nil {
		s.log.Error("Failed to compute analytics", "scope", scope.Key(), "range", period.Range, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalyticsUnavailable, err)
	}

	report := &Report{
		Period: ReportPeriod{
			Range:         period.Range,
			CurrentStart:  period.Current.Start,
			PreviousStart: period.Previous.Start,
			GeneratedAt:   now,
		},
		Summary: *summary,
	}

	s.store(ctx, key, report)
	s.log.Info("Analytics report generated", "scope", scope.Key(), "range", period.Range,
		"users", len(snapshot.Users), "properties", len(snapshot.Properties), "payments", len(snapshot.Payments))

	return report, nil
}

// fetch loads all five collections concurrently. The first failure cancels
// the remaining reads.
func (s *AnalyticsService) fetch(ctx context.Context, scope repositories.Scope) (*analytics.Snapshot, error) {
	if s.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
		defer cancel()
	}

	snapshot := &analytics.Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snapshot.Users, err = s.source.ListUsers(ctx, scope)
		return wrapFetch("users", err)
	})
	g.Go(func() (err error) {
		snapshot.Properties, err = s.source.ListProperties(ctx, scope)
		return wrapFetch("properties", err)
	})
	g.Go(func() (err error) {
		snapshot.Tenancies, err = s.source.ListTenancies(ctx, scope)
		return wrapFetch("tenancies", err)
	})
	g.Go(func() (err error) {
		snapshot.Payments, err = s.source.ListPayments(ctx, scope)
		return wrapFetch("payments", err)
	})
	g.Go(func() (err error) {
		snapshot.Maintenance, err = s.source.ListMaintenanceRequests(ctx, scope)
		return wrapFetch("maintenance requests", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func wrapFetch(entity string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", entity, err)
	}
	return nil
}

func (s *AnalyticsService) cached(ctx context.Context, key string) (*Report, bool) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("Analytics cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		s.log.Warn("Discarding unreadable analytics cache entry", "key", key, "error", err)
		return nil, false
	}
	return &report, true
}

func (s *AnalyticsService) store(ctx context.Context, key string, report *Report) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		s.log.Warn("Failed to encode analytics report for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		s.log.Warn("Analytics cache write failed", "key", key, "error", err)
	}
}

// InvalidateAnalytics drops cached reports for scope across every range.
func (s *AnalyticsService) InvalidateAnalytics(ctx context.Context, scope repositories.Scope) error {
	if s.cache == nil {
		return nil
	}
	for _, r := range []analytics.Range{analytics.RangeWeek, analytics.RangeMonth, analytics.RangeQuarter, analytics.RangeYear} {
		if err := s.cache.Delete(ctx, fmt.Sprintf(AnalyticsCacheKeyPattern, scope.Key(), r)); err != nil {
			return fmt.Errorf("failed to invalidate analytics cache: %w", err)
		}
	}
	return nil
}
