package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/customeros/mailbridge/api/errors"
)

const DefaultAPIKeyHeader = "X-API-KEY"

// APIKeyConfig holds the configuration for API key authentication
type APIKeyConfig struct {
	HeaderName  string
	ValidAPIKey string
}

// APIKeyMiddleware rejects requests that do not carry the configured key
func APIKeyMiddleware(config APIKeyConfig) gin.HandlerFunc {
	header := config.HeaderName
	if header == "" {
		header = DefaultAPIKeyHeader
	}

	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader(header))

		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.ErrorResponse{Error: "Missing API key"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(config.ValidAPIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.ErrorResponse{Error: "Invalid API key"})
			return
		}

		c.Next()
	}
}
