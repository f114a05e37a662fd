package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterConfig controls cross-cutting router behavior.
type RouterConfig struct {
	// AllowedOrigins lists CORS origins; empty allows any origin.
	AllowedOrigins []string
	// ServiceName names the otelgin tracing middleware.
	ServiceName string
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(handlers *Handlers, cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "archivist"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", handlers.HandleHealth)

	api := router.Group("/api")
	{
		api.POST("/generate_fragment", handlers.HandleGenerateFragment)
		api.POST("/classify_fragment", handlers.HandleClassifyFragment)
		api.POST("/register_player", handlers.HandleRegisterPlayer)
		api.GET("/player/:id/profile", handlers.HandleGetProfile)
	}

	return router
}

// corsMiddleware allows the browser frontend to call the API from a
// different origin. An empty allow-list echoes any origin.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (len(allowed) == 0 || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
