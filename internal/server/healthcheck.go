package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juanpablosotoc/zartex/constants"
)

func (h *handlers) healthCheck(startedAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC()
		diff := now.Sub(startedAt)

		c.JSON(http.StatusOK, gin.H{
			"started_at": startedAt.String(),
			"uptime":     diff.String(),
			"status":     "Ok",
			"version":    constants.Version,
			"revision":   constants.Revision,
			"build_time": constants.BuildTime,
			"compiler":   constants.Compiler,
		})
	}
}

func (h *handlers) sysInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		memStats := new(runtime.MemStats)
		runtime.ReadMemStats(memStats)
		c.JSON(http.StatusOK, gin.H{
			"time":            time.Now().UnixNano(),
			"go_version":      runtime.Version(),
			"go_os":           runtime.GOOS,
			"go_arch":         runtime.GOARCH,
			"cpu_num":         runtime.NumCPU(),
			"goroutine_num":   runtime.NumGoroutine(),
			"go_max_procs":    runtime.GOMAXPROCS(0),
			"mem_alloc":       memStats.Alloc,
			"mem_total_alloc": memStats.TotalAlloc,
			"mem_sys":         memStats.Sys,
		})
	}
}
