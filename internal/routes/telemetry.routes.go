package routes

import (
	"vehicledash/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterTelemetryRoutes(r *gin.Engine, tc *controllers.TelemetryController) {
	telemetry := r.Group("/api/telemetry")
	{
		telemetry.GET("/current", tc.GetCurrent)
		telemetry.GET("/history", tc.GetHistory)
		telemetry.GET("/alerts", tc.GetAlerts)
		telemetry.GET("/ranges", tc.GetRanges)
		telemetry.GET("/health", tc.GetHealth)
	}
	r.GET("/api/dashboard", tc.GetDashboard)
}
