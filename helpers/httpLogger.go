package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once it is served.
// 4xx responses are logged as warnings and 5xx as errors.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		requestID := ctx.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Header(RequestIDHeader, requestID)

		logger := log.With().Str("requestId", requestID).Logger()
		ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context()))

		ctx.Next()

		status := ctx.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
			event = logger.Warn()
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		default:
			event = logger.Info()
		}

		if len(ctx.Errors) > 0 {
			event = event.Str("errors", ctx.Errors.String())
		}

		event.Str("method", ctx.Request.Method).
			Str("url", ctx.Request.URL.String()).
			Int("status", status).
			Int("size", ctx.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
