package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/games/:id", h.game)
		api.POST("/compose", h.compose)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
