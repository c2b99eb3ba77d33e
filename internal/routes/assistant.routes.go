package routes

import (
	"vehicledash/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterAssistantRoutes(r *gin.Engine, ac *controllers.AssistantController) {
	assistant := r.Group("/api/assistant")
	{
		assistant.GET("/greeting", ac.GetGreeting)
		assistant.POST("/messages", ac.PostMessage)
	}
}
