package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Fatimapsp/unex-escuta/api/swagger"
	"github.com/Fatimapsp/unex-escuta/internal/handler"
	"github.com/Fatimapsp/unex-escuta/internal/middleware"
	"github.com/Fatimapsp/unex-escuta/internal/repository"
	"github.com/Fatimapsp/unex-escuta/internal/service"
	"github.com/Fatimapsp/unex-escuta/pkg/cache"
	"github.com/Fatimapsp/unex-escuta/pkg/config"
	"github.com/Fatimapsp/unex-escuta/pkg/database"
	"github.com/Fatimapsp/unex-escuta/pkg/logger"
	corsmiddleware "github.com/Fatimapsp/unex-escuta/pkg/middleware/cors"
	reqidmiddleware "github.com/Fatimapsp/unex-escuta/pkg/middleware/requestid"
)

// @title UNEX Escuta API
// @version 1.0.0
// @description Feedback platform for professors, disciplines and campus infrastructure
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.MigrationsDir); err != nil {
		logr.Fatal("failed to run migrations", zap.Error(err))
	}

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Stats.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stats cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Stats.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	disciplineRepo := repository.NewDisciplineRepository(db)
	infrastructureRepo := repository.NewInfrastructureRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userService := service.NewUserService(userRepo, validate, logr)
	professorService := service.NewProfessorService(professorRepo, validate, logr)
	disciplineService := service.NewDisciplineService(disciplineRepo, validate, logr)
	infrastructureService := service.NewInfrastructureService(infrastructureRepo, validate, logr)
	feedbackService := service.NewFeedbackService(feedbackRepo, cacheService, logr, service.FeedbackConfig{
		FoundingYear: cfg.Platform.FoundingYear,
	})
	statsService := service.NewStatsService(feedbackRepo, professorRepo, disciplineRepo, cacheService, metricsService, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		Users:          handler.NewUserHandler(userService),
		Professors:     handler.NewProfessorHandler(professorService),
		Disciplines:    handler.NewDisciplineHandler(disciplineService),
		Infrastructure: handler.NewInfrastructureHandler(infrastructureService),
		Feedback:       handler.NewFeedbackHandler(feedbackService),
		Stats:          handler.NewStatsHandler(statsService),
		Metrics:        handler.NewMetricsHandler(metricsService),
		AuthService:    authService,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
