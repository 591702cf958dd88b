package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger logs failed API calls with the route, tenant and campaign they touched.
// Successful calls are not logged.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// event streams end with whatever status the client left them in
		if strings.HasSuffix(c.Request.URL.Path, "/events") {
			return
		}
		status := c.Writer.Status()
		if status < 400 {
			return
		}

		fields := logrus.Fields{
			"status":    status,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"route":     c.FullPath(),
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		}
		// set by the bearer token middleware once the caller is known
		if org := c.GetString("organization_id"); org != "" {
			fields["organization_id"] = org
		}
		if strings.Contains(c.FullPath(), "/campaigns/:id") {
			fields["campaign_id"] = c.Param("id")
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logrus.WithFields(fields)
		if status >= 500 {
			entry.Error("Dispatch API call failed")
			return
		}
		entry.Warn("Dispatch API call rejected")
	}
}
