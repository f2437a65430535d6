package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	catalogH *CatalogHandler,
	scoreH *ScoreHandler,
	adminH *AdminHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	api := r.Group("/api")
	api.GET("/questions", catalogH.GetQuestions)
	api.GET("/characters", catalogH.GetCharacters)
	api.POST("/score", scoreH.PostScore)
	api.POST("/media/map", scoreH.MapMedia)
	api.POST("/feedback", scoreH.PostFeedback)

	admin := r.Group("/admin")
	admin.POST("/login", adminH.Login)
	protected := admin.Group("")
	protected.Use(AdminAuthMiddleware(adminH.auth))
	protected.GET("/results", adminH.GetResults)
	protected.GET("/feedback", adminH.GetFeedback)
	protected.GET("/stats", adminH.GetStats)
	protected.POST("/media-mapping", adminH.RemapMedia)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
