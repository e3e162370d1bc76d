package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/propertyease/propertyease/internal/app/middleware"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	config *HandlerConfig
}

// NewBaseHandler creates a new base handler
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{
		config: NewHandlerConfig(),
	}
}

// AuthenticateUser extracts and validates user context
func (b *BaseHandler) AuthenticateUser(c *gin.Context) (*middleware.UserContext, bool) {
	userCtx := getUserContextFromGin(c)
	if userCtx == nil {
		b.RespondUnauthorized(c, "User authentication required")
		return nil, false
	}
	return userCtx, true
}

// RespondError sends a standardized error response
func (b *BaseHandler) RespondError(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	c.JSON(statusCode, b.errorResponse(statusCode, errorCode, message, details...))
}

func (b *BaseHandler) errorResponse(statusCode int, errorCode, message string, details ...string) ErrorResponse {
	response := ErrorResponse{
		Error:   errorCode,
		Message: message,
		Status:  statusCode,
	}

	// Include details based on environment
	if len(details) > 0 && b.config.EnableDebugErrors {
		response.Details = details[0]
	}

	return response
}

// RespondUnavailable tells the client the failure is transient and the request can be retried
func (b *BaseHandler) RespondUnavailable(c *gin.Context, errorCode, message string, details ...string) {
	response := b.errorResponse(http.StatusServiceUnavailable, errorCode, message, details...)
	response.Retryable = true
	c.JSON(http.StatusServiceUnavailable, response)
}

// RespondUnauthorized sends a standardized unauthorized response
func (b *BaseHandler) RespondUnauthorized(c *gin.Context, message string) {
	b.RespondError(c, http.StatusUnauthorized, "unauthorized", message)
}

// RespondInternalError sends a standardized internal server error response
func (b *BaseHandler) RespondInternalError(c *gin.Context, message string, details ...string) {
	b.RespondError(c, http.StatusInternalServerError, "internal_error", message, details...)
}

// RespondSuccess sends a standardized success response
func (b *BaseHandler) RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
