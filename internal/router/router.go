package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/intake-api/internal/handler/prometheus"
	"github.com/jwalitptl/intake-api/internal/middleware"
	"github.com/jwalitptl/intake-api/pkg/httputil"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers are the API route groups.
type Handlers struct {
	Health  Handler
	Form    Handler
	Status  Handler
	User    Handler
	Patient Handler
}

type RouterConfig struct {
	Mode           string
	RateLimit      rate.Limit
	RateBurst      int
	RateLimitTTL   time.Duration
	RateLimitOff   bool
	AllowedOrigins []string
	MaxUploadSize  int64
	RequestTimeout time.Duration
	// StaticMaxAge is the cache lifetime of form and status responses, in seconds.
	StaticMaxAge int
}

type Router struct {
	engine   *gin.Engine
	handlers Handlers
	metrics  *prometheus.Handler
	config   RouterConfig
}

func NewRouter(handlers Handlers, metrics *prometheus.Handler, config RouterConfig) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.StaticMaxAge <= 0 {
		config.StaticMaxAge = 300
	}

	engine := gin.New()
	engine.ContextWithFallback = true
	if config.MaxUploadSize > 0 {
		engine.MaxMultipartMemory = config.MaxUploadSize
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(middleware.DefaultCORSConfig(config.AllowedOrigins)),
		middleware.Timeout(config.RequestTimeout),
		middleware.SizeLimit(middleware.DefaultSizeLimitConfig(config.MaxUploadSize)),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, httputil.Response{
			Status:  httputil.StatusError,
			Message: "route not found",
		})
	})

	return &Router{
		engine:   engine,
		handlers: handlers,
		metrics:  metrics,
		config:   config,
	}
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api/v1")
	r.handlers.Health.RegisterRoutes(api)

	static := api.Group("", middleware.CacheControl(r.config.StaticMaxAge))
	r.handlers.Form.RegisterRoutes(static)
	r.handlers.Status.RegisterRoutes(static)

	// Account and patient routes are rate limited per client.
	submit := api.Group("")
	if !r.config.RateLimitOff {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  r.config.RateLimit,
			Burst: r.config.RateBurst,
			TTL:   r.config.RateLimitTTL,
		})
		submit.Use(limiter.RateLimit())
	}
	r.handlers.User.RegisterRoutes(submit)
	r.handlers.Patient.RegisterRoutes(submit)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
