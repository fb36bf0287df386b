package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helljxnn/astrostar-backend-sub000/internal/interfaces/http/response"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/logger"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/redis"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// storedResponse is what a completed request leaves behind for replays.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key. Keys are scoped per user. When Redis is unavailable the
// request is processed normally.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || !redis.Enabled() {
			c.Next()
			return
		}

		userID, _ := GetUserID(c)
		storageKey := fmt.Sprintf("idempotency:%d:%s:%s", userID, c.FullPath(), key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil && val == processingMarker:
			c.AbortWithStatusJSON(http.StatusConflict, response.Envelope{
				Success: false,
				Message: "A request with this Idempotency-Key is already in progress",
				Code:    "IDEMPOTENCY_CONFLICT",
			})
			return
		case err == nil:
			var stored storedResponse
			if jsonErr := json.Unmarshal([]byte(val), &stored); jsonErr == nil {
				c.Header("X-Idempotency-Hit", "true")
				c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
				c.Abort()
				return
			}
			// unreadable entry, drop it and process again
			_ = redisDel(ctx, storageKey)
		case !redis.IsNil(err):
			logger.Warn(ctx, "idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil || !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, response.Envelope{
				Success: false,
				Message: "A request with this Idempotency-Key is already in progress",
				Code:    "IDEMPOTENCY_CONFLICT",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			// failed attempts may be retried with the same key
			_ = redisDel(ctx, storageKey)
			return
		}
		payload, err := json.Marshal(storedResponse{Status: status, Body: w.body.Bytes()})
		if err == nil {
			err = redisSet(ctx, storageKey, string(payload), RetentionDuration)
		}
		if err != nil {
			logger.Warn(ctx, "failed to store idempotent response", zap.Error(err))
			_ = redisDel(ctx, storageKey)
		}
	}
}
