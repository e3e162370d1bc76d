package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propertyease/propertyease/internal/app/middleware"
	"github.com/propertyease/propertyease/internal/domain/services"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
)

// AnalyticsProvider produces dashboard analytics reports
type AnalyticsProvider interface {
	GetSystemAnalytics(ctx context.Context, rangeToken string) (*services.Report, error)
	GetOwnerAnalytics(ctx context.Context, ownerID uuid.UUID, rangeToken string) (*services.Report, error)
}

// AnalyticsHandler serves the admin and owner dashboard analytics
type AnalyticsHandler struct {
	*BaseHandler
	analytics    AnalyticsProvider
	defaultRange string
}

// NewAnalyticsHandler creates a new analytics handler. defaultRange is used
// when a request carries no range parameter.
func NewAnalyticsHandler(analytics AnalyticsProvider, defaultRange string) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:  NewBaseHandler(),
		analytics:    analytics,
		defaultRange: defaultRange,
	}
}

// RegisterRoutes sets up the analytics routes. Auth middleware must already
// be applied to router.
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AdminRequiredMiddleware())
	{
		admin.GET("/analytics", h.GetSystemAnalytics)
	}

	owner := router.Group("/owner")
	owner.Use(middleware.RequireRole(models.UserRoleOwner))
	{
		owner.GET("/analytics", h.GetOwnerAnalytics)
	}
}

// GetSystemAnalytics returns the platform-wide report
// @Summary Get system analytics
// @Tags analytics
// @Produce json
// @Param range query string false "7d, 30d, 90d or 1y"
// @Success 200 {object} services.Report
// @Failure 503 {object} ErrorResponse
// @Router /admin/analytics [get]
func (h *AnalyticsHandler) GetSystemAnalytics(c *gin.Context) {
	report, err := h.analytics.GetSystemAnalytics(c.Request.Context(), h.rangeParam(c))
	if err != nil {
		h.respondAnalyticsError(c, err)
		return
	}

	h.RespondSuccess(c, report)
}

// GetOwnerAnalytics returns the report for the caller's own portfolio
// @Summary Get owner analytics
// @Tags analytics
// @Produce json
// @Param range query string false "7d, 30d, 90d or 1y"
// @Success 200 {object} services.Report
// @Failure 503 {object} ErrorResponse
// @Router /owner/analytics [get]
func (h *AnalyticsHandler) GetOwnerAnalytics(c *gin.Context) {
	userCtx, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	report, err := h.analytics.GetOwnerAnalytics(c.Request.Context(), userCtx.UserID, h.rangeParam(c))
	if err != nil {
		h.respondAnalyticsError(c, err)
		return
	}

	h.RespondSuccess(c, report)
}

func (h *AnalyticsHandler) rangeParam(c *gin.Context) string {
	return c.DefaultQuery("range", h.defaultRange)
}

func (h *AnalyticsHandler) respondAnalyticsError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrAnalyticsUnavailable) {
		h.RespondUnavailable(c, "analytics_unavailable", "Analytics are temporarily unavailable, please try again", err.Error())
		return
	}
	h.RespondInternalError(c, "Failed to load analytics", err.Error())
}
