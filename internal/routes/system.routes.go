package routes

import (
	"net/http"

	"vehicledash/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterSystemRoutes(r *gin.Engine, sc *controllers.SystemController) {
	r.GET("/api/system", sc.GetSystem)
	r.GET("/healthz", sc.Healthz)
}

// RegisterMetricsRoute exposes a Prometheus handler at path
func RegisterMetricsRoute(r *gin.Engine, path string, h http.Handler) {
	r.GET(path, gin.WrapH(h))
}
