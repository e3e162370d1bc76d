package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/propertyease/propertyease/internal/app/middleware"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// getUserContextFromGin returns the user stored by the auth middleware, if any.
func getUserContextFromGin(c *gin.Context) *middleware.UserContext {
	return middleware.GetUserContext(c)
}
