package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindcare-bot/internal/service"
)

// RequestRecorder registra metricas por peticion. Puede ser nil.
type RequestRecorder interface {
	RecordHTTPRequest(method, path string, statusCode int, d time.Duration)
}

// RouterDeps agrupa handlers y middlewares del router.
type RouterDeps struct {
	Logger       *zap.Logger
	Chat         *ChatHandler
	Mood         *MoodHandler
	Resources    *ResourceHandler
	OptionalAuth gin.HandlerFunc
	RequireAuth  gin.HandlerFunc
	Metrics      http.Handler
	Recorder     RequestRecorder
	Limiter      service.MessageRateLimiter
	ModelEnabled bool
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	noop := func(c *gin.Context) { c.Next() }
	if deps.OptionalAuth == nil {
		deps.OptionalAuth = noop
	}
	if deps.RequireAuth == nil {
		deps.RequireAuth = func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication unavailable"})
		}
	}

	r := gin.New()
	r.Use(zapLoggerMiddleware(deps.Logger), metricsMiddleware(deps.Recorder), gin.Recovery())

	r.GET("/healthz", Health(deps.ModelEnabled))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	api := r.Group("", jsonContentTypeMiddleware(), deps.OptionalAuth)
	api.POST("/session", deps.Chat.CreateSession)
	api.POST("/process-message", rateLimitMiddleware(deps.Limiter, deps.Logger), deps.Chat.ProcessMessage)
	api.GET("/chat/:session_id/messages", deps.Chat.Transcript)
	api.POST("/chat/:session_id/clear", deps.Chat.Clear)

	api.POST("/mood", deps.Mood.Record)
	api.GET("/mood", deps.Mood.List)
	api.DELETE("/mood/:id", deps.RequireAuth, deps.Mood.Delete)

	api.GET("/resources", deps.Resources.List)

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

// metricsMiddleware usa la ruta registrada como etiqueta, no la URL, para acotar la cardinalidad.
func metricsMiddleware(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rec == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		rec.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// rateLimitMiddleware limita por IP de cliente; sin limiter no hace nada.
func rateLimitMiddleware(limiter service.MessageRateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", zap.String("client_ip", c.ClientIP()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many messages, please slow down"})
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
