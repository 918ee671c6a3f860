package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"residence-be-svc/pkg/utils"
)

// ErrorHandler recovers panics into a 500 envelope
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.AbortWithFailure(c, http.StatusInternalServerError, "Internal server error", nil)
	})
}

// NoRouteHandler answers unknown paths
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.NotFoundResponse(c, "Route not found")
	}
}

// NoMethodHandler answers known paths called with the wrong method
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.FailureResponse(c, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}
