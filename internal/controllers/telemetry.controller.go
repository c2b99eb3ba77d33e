package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vehicledash/internal/models"
)

// TelemetrySource is the read side of a telemetry session
type TelemetrySource interface {
	Snapshot() models.Snapshot
	CurrentSample() models.Sample
	LatestHistory(n int) []models.Sample
	ActiveAlerts() []models.Alert
	Health() models.HealthStatus
	ChannelRanges() models.ChannelRanges
}

type TelemetryController struct {
	source TelemetrySource
}

func NewTelemetryController(source TelemetrySource) *TelemetryController {
	return &TelemetryController{source: source}
}

// GetCurrent returns the latest sample with health and per-channel levels
func (tc *TelemetryController) GetCurrent(c *gin.Context) {
	snap := tc.source.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"sample":    snap.Current,
		"health":    snap.Health,
		"channels":  snap.Readings(tc.source.ChannelRanges()),
		"tick":      snap.Tick,
		"timestamp": snap.GeneratedAt,
	})
}

// GetHistory returns retained samples, most recent first
// Query params: limit=n (default: all)
func (tc *TelemetryController) GetHistory(c *gin.Context) {
	limit := -1
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	history := tc.source.LatestHistory(limit)
	c.JSON(http.StatusOK, gin.H{
		"count": len(history),
		"data":  history,
	})
}

// GetAlerts returns the alerts of the last tick; none is an empty list
func (tc *TelemetryController) GetAlerts(c *gin.Context) {
	alerts := tc.source.ActiveAlerts()
	if alerts == nil {
		alerts = []models.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

func (tc *TelemetryController) GetRanges(c *gin.Context) {
	c.JSON(http.StatusOK, tc.source.ChannelRanges())
}

func (tc *TelemetryController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, tc.source.Health())
}

// GetDashboard returns the complete published snapshot
func (tc *TelemetryController) GetDashboard(c *gin.Context) {
	snap := tc.source.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"snapshot": snap,
		"channels": snap.Readings(tc.source.ChannelRanges()),
		"ranges":   tc.source.ChannelRanges(),
	})
}
