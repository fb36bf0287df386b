package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/logger"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/utils"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware generates a unique ID for each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = utils.GenerateUUIDv7().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		// logger.WithContext reads the id from the request context
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
