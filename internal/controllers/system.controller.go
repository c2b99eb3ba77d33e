package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vehicledash/internal/services"
)

type SystemController struct {
	cache   *services.HostStatsCache
	running func() bool
}

func NewSystemController(cache *services.HostStatsCache, running func() bool) *SystemController {
	return &SystemController{cache: cache, running: running}
}

// GetSystem returns the simulator's own resource usage
func (sc *SystemController) GetSystem(c *gin.Context) {
	status, err := sc.cache.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (sc *SystemController) Healthz(c *gin.Context) {
	if sc.running != nil && !sc.running() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "stopped"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
