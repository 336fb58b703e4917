package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ragops/kbconsole/internal/api/middleware"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(handler *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running!"})
	})

	v1 := r.Group("/api/v1")
	handler.RegisterRoutes(v1)

	return r
}
