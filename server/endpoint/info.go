package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionkit/version"
)

var startTime = time.Now()

// StatsFunc reports live counters, such as open sessions and channels.
type StatsFunc func() map[string]int

// Info reports the build, the uptime and, when stats is set, live counters.
func Info(serviceName string, stats StatsFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		body := gin.H{
			"service": serviceName,
			"version": v.Version,
			"commit":  v.GitCommit,
			"built":   v.BuildTime,
			"go":      v.GoVersion,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		}
		if stats != nil {
			body["stats"] = stats()
		}
		c.JSON(http.StatusOK, body)
	}
}
