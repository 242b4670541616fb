package middleware

import (
	"fmt"
	"time"

	"github.com/suntzu974/papang/pkg/logger"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware(logger logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		method := c.Request.Method
		path := c.Request.URL.Path
		if rawQuery := c.Request.URL.RawQuery; rawQuery != "" {
			path = fmt.Sprintf("%s?%s", path, rawQuery)
		}
		status := c.Writer.Status()

		logger.Info(fmt.Sprintf("%s %s", method, path),
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		)

		for _, ginErr := range c.Errors {
			logger.ErrorErr("HTTP request error", ginErr.Err,
				"status", status,
				"method", method,
				"path", path,
			)
		}
	}
}
