package router

import (
	"net/http"

	"geolog/config"
	"geolog/internal/handler"
	"geolog/internal/metrics"
	"geolog/internal/middleware"
	"geolog/internal/repository"
	"geolog/internal/service"
	"geolog/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Options carries optional collaborators. The zero value is valid.
type Options struct {
	// ProfileCache fronts enrichment lookups when set.
	ProfileCache service.ProfileCache
	// LocationClock overrides the insert timestamp source.
	LocationClock *repository.MonotonicClock
}

// Setup wires repositories, services and handlers. The returned func
// releases background resources and must be called on shutdown.
func Setup(cfg *config.Config, db *gorm.DB, opts Options) (*gin.Engine, func(), error) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, nil, err
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())

	policy, err := service.NewVisibilityPolicy(cfg.Location.PrivilegedRoles)
	if err != nil {
		return nil, nil, err
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	locRepo := repository.NewLocationRepository(db)
	if opts.LocationClock != nil {
		locRepo.WithClock(opts.LocationClock)
	}
	errorRepo := repository.NewErrorLogRepository(db)

	liveHub := ws.NewLocationHub(locRepo, cfg.Location.DefaultListLimit)

	// Services
	errs := service.NewErrorChannel(errorRepo)
	presenter := service.NewPresenter(userRepo, opts.ProfileCache)
	locSvc := service.NewLocationService(cfg.Location, locRepo, userRepo, presenter, errs)
	locSvc.SetPublisher(liveHub)
	authSvc := service.NewAuthService(&cfg.JWT, userRepo)
	profileSvc := service.NewProfileService(userRepo, employeeRepo, errs)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	locationHandler := handler.NewLocationHandler(locSvc)
	meHandler := handler.NewMeHandler(profileSvc)

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/ws/locations", ws.UpgradeLocationWS(&cfg.JWT, policy, liveHub))

	limit := func(c *gin.Context) { c.Next() }
	cleanup := func() {}
	if !cfg.RateLimit.Disabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		limit = middleware.RateLimit(limiter)
		cleanup = limiter.Stop
	}

	v1 := r.Group("/api/v1")
	{
		authG := v1.Group("/auth")
		authG.Use(limit)
		authG.POST("/login", authHandler.Login)
		authG.POST("/refresh", authHandler.Refresh)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthRequired(&cfg.JWT, policy), limit)
	{
		protected.GET("/me", meHandler.GetMe)
		protected.GET("/me/employee", meHandler.GetEmployee)

		loc := protected.Group("/locations")
		loc.POST("", locationHandler.SaveLocation)
		loc.GET("", locationHandler.GetLocations)
		loc.GET("/history", locationHandler.GetHistory)
		loc.GET("/users", locationHandler.GetUsers)
		loc.GET("/last", locationHandler.GetLastLocation)
	}

	return r, cleanup, nil
}
