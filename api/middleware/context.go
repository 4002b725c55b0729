package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/customeros/mailbridge/internal/utils"
)

const RequestIDHeader = "X-Request-ID"

// CustomContextMiddleware assigns a request id and stores the request scoped
// values (provider, company) in the request context.
func CustomContextMiddleware(appSource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set("RequestId", requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := utils.WithCustomContextFromGinRequest(c, appSource)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
