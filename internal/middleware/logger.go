package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"artechoes/internal/pkg/logger"
)

const headerRequestID = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestID(c)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := logger.With("http")
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		requestFields(ev, c, start).Msg("request")
	}
}

// ErrorLogger logs handler errors and turns panics into a 500 response.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			log := logger.With("http")
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				requestFields(log.Error(), c, start).
					Err(err).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal Server Error",
					"code":  "INTERNAL_ERROR",
				})
				return
			}

			for _, err := range c.Errors {
				ev := requestFields(log.Error(), c, start).Str("type", fmt.Sprintf("%v", err.Type)).Err(err.Err)
				if err.Meta != nil {
					ev = ev.Interface("meta", err.Meta)
				}
				ev.Msg("request error")
			}
		}()

		c.Next()
	}
}

func requestFields(ev *zerolog.Event, c *gin.Context, start time.Time) *zerolog.Event {
	return ev.
		Int("status", c.Writer.Status()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("client_ip", c.ClientIP()).
		Str("user_id", c.GetString(ContextUserID)).
		Str("request_id", c.GetString("request_id")).
		Dur("latency", time.Since(start))
}

func requestID(c *gin.Context) string {
	return c.GetHeader(headerRequestID)
}
