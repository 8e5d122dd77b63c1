package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimit rate.Limit
	RateBurst int
	CORS      middleware.CORSConfig
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	h       *handler.Handler
	metrics *routerMetrics
	config  Config

	public    []Handler
	protected []Handler
}

type routerMetrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newRouterMetrics() *routerMetrics {
	m := &routerMetrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
	m.registry.MustRegister(m.requestDuration, m.requestTotal)
	return m
}

func NewRouter(auth *middleware.AuthMiddleware, h *handler.Handler, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:  gin.New(),
		auth:    auth,
		h:       h,
		metrics: newRouterMetrics(),
		config:  config,
	}
}

// Public registers handlers reachable without a bearer token.
func (r *Router) Public(handlers ...Handler) {
	r.public = append(r.public, handlers...)
}

// Protected registers handlers behind the auth middleware.
func (r *Router) Protected(handlers ...Handler) {
	r.protected = append(r.protected, handlers...)
}

func (r *Router) Setup() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger())
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.config.CORS))
	r.engine.Use(r.observe())

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  r.config.RateLimit,
		Burst: r.config.RateBurst,
	})
	r.engine.Use(limiter.RateLimit())

	r.engine.GET("/health", r.h.HealthCheck)
	// The booking and outbox counters register through promauto into the
	// default registry; gather it together with the router's own HTTP
	// series so one scrape sees both.
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		prometheus.Gatherers{r.metrics.registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)))

	// Directory and availability responses are safe to cache briefly;
	// everything mutating sits behind auth and gets no-store.
	cacheCfg := middleware.DefaultCacheConfig()
	cacheCfg.MaxAge = 60 // availability goes stale fast
	api := r.engine.Group("/api/v1")
	api.Use(middleware.Cache(cacheCfg))
	for _, h := range r.public {
		h.RegisterRoutes(api)
	}

	authed := r.engine.Group("/api/v1")
	authed.Use(r.auth.RequireAuth())
	for _, h := range r.protected {
		h.RegisterRoutes(authed)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
