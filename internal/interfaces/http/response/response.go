package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/logger"
	"go.uber.org/zap"
)

const genericServerMessage = "internal server error"

// exposeServerErrors controls whether 5xx causes reach the client. It is off
// unless the server runs outside production.
var exposeServerErrors = false

// SetEnvironment configures error rendering for the given SERVER_ENV.
func SetEnvironment(env string) {
	exposeServerErrors = env != "" && env != "production"
}

// Envelope is the body of every API response
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Success writes a success response
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a page of items with its pagination meta
func Paginated(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Meta: meta})
}

// Error writes an error response. Client errors keep their message; server
// errors are logged and replaced by a generic message in production.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.AsAppError(err)
	if appErr == nil {
		appErr = domainerrors.Persistence(nil)
	}

	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("code", appErr.Code),
			zap.Error(appErr.Err),
		)
		message = genericServerMessage
		if exposeServerErrors && appErr.Err != nil {
			message = appErr.Err.Error()
		}
	}

	c.AbortWithStatusJSON(appErr.Status, Envelope{
		Success: false,
		Message: message,
		Code:    appErr.Code,
	})
}
