package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/telehealth-api/internal/handler"
	appointmenth "github.com/jwalitptl/telehealth-api/internal/handler/appointment"
	authh "github.com/jwalitptl/telehealth-api/internal/handler/auth"
	availabilityh "github.com/jwalitptl/telehealth-api/internal/handler/availability"
	ehrh "github.com/jwalitptl/telehealth-api/internal/handler/ehr"
	prescriptionh "github.com/jwalitptl/telehealth-api/internal/handler/prescription"
	signalingh "github.com/jwalitptl/telehealth-api/internal/handler/signaling"
	storageh "github.com/jwalitptl/telehealth-api/internal/handler/storage"
	userh "github.com/jwalitptl/telehealth-api/internal/handler/user"
	"github.com/jwalitptl/telehealth-api/internal/middleware"
	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/pkg/metrics"
)

type Handlers struct {
	Auth         *authh.Handler
	User         *userh.Handler
	Availability *availabilityh.Handler
	Appointment  *appointmenth.Handler
	Prescription *prescriptionh.Handler
	EHR          *ehrh.Handler
	Storage      *storageh.Handler
	Signaling    *signalingh.Handler
	Health       *handler.Handler
}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
	Timeout    time.Duration
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *metrics.Metrics
}

func New(auth *middleware.AuthMiddleware, handlers Handlers, m *metrics.Metrics, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	middleware.RegisterValidators()

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  m,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.handlers.Health.LivenessCheck)
		health.GET("/ready", r.handlers.Health.ReadinessCheck)
		health.GET("/metrics", r.handlers.Health.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", r.handlers.Auth.Register)
		auth.POST("/login", r.handlers.Auth.Login)
		auth.POST("/refresh", r.handlers.Auth.RefreshToken)
	}
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/profile", r.handlers.Auth.Profile)
	rg.GET("/users/providers", r.handlers.User.ListProviders)

	availability := rg.Group("/availability")
	{
		availability.POST("", r.auth.RequireRole(model.RoleProvider), r.handlers.Availability.ReplaceSchedule)
		availability.GET("/:providerId", r.handlers.Availability.GetAvailability)
	}

	appointments := rg.Group("/appointments")
	{
		appointments.POST("", r.handlers.Appointment.BookAppointment)
		appointments.GET("/me", r.handlers.Appointment.ListMyAppointments)
		appointments.PATCH("/:id/status", r.handlers.Appointment.UpdateStatus)
	}

	prescriptions := rg.Group("/prescriptions")
	{
		prescriptions.POST("", r.auth.RequireRole(model.RoleProvider), r.handlers.Prescription.CreatePrescription)
		prescriptions.GET("/patient/:patientId", r.handlers.Prescription.ListForPatient)
	}

	ehr := rg.Group("/ehr")
	{
		ehr.POST("", r.auth.RequireRole(model.RoleProvider), r.handlers.EHR.CreateRecord)
		ehr.GET("/patient/:patientId", r.handlers.EHR.ListForPatient)
	}

	rg.POST("/storage/upload-url", r.auth.RequireRole(model.RoleProvider), r.handlers.Storage.GenerateUploadURL)

	rg.GET("/video/ws", r.handlers.Signaling.ServeWS)
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		r.metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.HTTPLatency.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
