package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "farmvibe/docs"
	"farmvibe/internal/resolver"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.WithField("panic", recovered).Error("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	if len(s.allowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.allowOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	r.GET("/health", s.healthHandler)
	r.POST("/api/generate-farm-vibe", s.generateHandler(resolver.ModeStatic))
	r.POST("/api/generate-farm-vibe-ai", s.generateHandler(resolver.ModeGenerative))
	r.GET("/api/vibes/summary", s.vibeSummaryHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// healthHandler godoc
// @Summary Health check
// @Description Returns ledger health and generator availability.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (s *Server) healthHandler(c *gin.Context) {
	generation := gin.H{
		"available": s.resolver.GenerativeAvailable(),
		"strict":    s.resolver.Strict(),
	}
	if name := s.resolver.GeneratorName(); name != "" {
		generation["provider"] = name
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "up",
		"database":   s.db.Health(),
		"generation": generation,
	})
}
