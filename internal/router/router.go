package router

import (
	"time"

	"github.com/gin-gonic/gin"

	promhandler "reminderd/internal/handler/prometheus"
	"reminderd/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine    *gin.Engine
	reminderH Handler
	triggerH  Handler
	healthH   Handler
	prom      *promhandler.Handler
}

type Config struct {
	RateLimit  middleware.RateLimiterConfig
	CORSConfig middleware.CORSConfig
	Timeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		RateLimit:  middleware.DefaultRateLimiterConfig(),
		CORSConfig: middleware.DefaultCORSConfig(),
		Timeout:    30 * time.Second,
	}
}

func NewRouter(reminderH, triggerH, healthH Handler, config Config) *Router {
	// Set production mode
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	prom := promhandler.New()

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	r := &Router{
		engine:    engine,
		reminderH: reminderH,
		triggerH:  triggerH,
		healthH:   healthH,
		prom:      prom,
	}

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		prom.Middleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORSConfig),
		rateLimiter.RateLimit(),
	)

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", r.prom.Handler())

	api := r.engine.Group("/api/v1")

	// Add version header
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.healthH.RegisterRoutes(api)
	r.reminderH.RegisterRoutes(api)
	r.triggerH.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
