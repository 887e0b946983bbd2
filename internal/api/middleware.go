package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hypernova-labs/catalog-service/internal/services"
	"github.com/sirupsen/logrus"
)

// HeaderRequestID es el header con el ID de la petición
const HeaderRequestID = "X-Request-ID"

// RequestID asigna un ID a cada petición, reutilizando el del cliente si viene
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(HeaderRequestID, requestID)
		c.Set("request_id", requestID)
		c.Request = c.Request.WithContext(services.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// RequestLogger registra cada petición con logrus
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
