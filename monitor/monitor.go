package monitor

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"corpbank-portal-api/config"
)

var startedAt = time.Now()

// RegisterMonitorRoutes exposes a JSON runtime-status endpoint and a
// token-guarded raw log view for operators. Both sit outside /api/v1 so the
// frontend router never sees them.
func RegisterMonitorRoutes(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"uptime":       time.Since(startedAt).Round(time.Second).String(),
			"goroutines":   runtime.NumGoroutine(),
			"heap_alloc":   mem.HeapAlloc,
			"heap_objects": mem.HeapObjects,
			"num_gc":       mem.NumGC,
			"go_version":   runtime.Version(),
		})
	})

	router.GET("/logs", func(c *gin.Context) {
		token := os.Getenv("MONITOR_TOKEN")
		if token == "" || c.Query("token") != token {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read log"})
			return
		}

		c.Data(http.StatusOK, "text/plain; charset=utf-8", logData)
	})
}
