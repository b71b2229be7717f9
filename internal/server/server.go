package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobtracker/internal/auth"
	"jobtracker/internal/cache"
	"jobtracker/internal/config"
	"jobtracker/internal/handler"
	"jobtracker/internal/middleware"
	"jobtracker/internal/repository"
	"jobtracker/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config
	Logger *log.Logger

	tracer *sdktrace.TracerProvider
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func NewLogger(cfg *config.Config) *log.Logger {
	logger := log.New()
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.IsProduction() {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func Init(cfg *config.Config, logger *log.Logger) (*Server, error) {
	// Setup GORM
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	logger.Info("connected to database")

	// Setup Redis. A bad URL disables caching, events and rate limiting
	// rather than failing startup.
	var rc *redis.Client
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logger.WithError(err).Warn("invalid REDIS_URL, running without redis")
	} else {
		rc = redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, cache misses until it recovers")
		} else {
			logger.Info("connected to redis")
		}
		cancel()
	}

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.FrontendURL}
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	boardShareRepo := repository.NewBoardShareRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)

	deps := service.Deps{
		Boards: boardRepo,
		Cards:  cardRepo,
		Limits: columnRepo,
		Shares: boardShareRepo,
		Users:  userRepo,
	}
	if rc != nil {
		deps.Cache = cache.New(rc, cfg.CacheTTL, logger)
		deps.Events = cache.NewPublisher(rc)
	}
	boards := service.NewBoardService(deps, service.Config{
		InProgressLimit:  cfg.InProgressLimit,
		MaxBoardsPerUser: cfg.MaxBoardsPerUser,
		EventsChannel:    cfg.EventsChannel,
	}, service.WithLogger(logger))

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, tokens, logger)
	boardHandler := handler.NewBoardHandler(boards, logger)
	cardHandler := handler.NewCardHandler(boards, logger)
	dragHandler := handler.NewDragHandler(boards, logger)
	boardShareHandler := handler.NewBoardShareHandler(boards, logger)
	healthHandler := handler.NewHealthHandler(cfg.Environment, healthChecks(db, rc), logger)

	r.GET("/health", healthHandler.Basic)
	r.GET("/health/detailed", healthHandler.Detailed)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	authLimit := middleware.RateLimiter(rc, middleware.RateLimit{Name: "auth", Max: 10, Window: 15 * time.Minute}, logger)
	r.POST("/register", authLimit, userHandler.Register)
	r.POST("/login", authLimit, userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	authorized.Use(middleware.RateLimiter(rc, middleware.RateLimit{
		Max:    int64(cfg.RateLimitMaxRequests),
		Window: cfg.RateLimitWindow,
	}, logger))
	{
		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.GET("/boards/:id/stats", boardHandler.Stats)

		// Column routes
		authorized.PUT("/boards/:id/columns/:status", boardHandler.SetColumnLimit)
		authorized.GET("/boards/:id/columns/:status/cards", boardHandler.ColumnCards)

		// Card routes
		authorized.POST("/boards/:id/cards", cardHandler.Create)
		authorized.PUT("/boards/:id/cards/:card_id", cardHandler.Update)
		authorized.DELETE("/boards/:id/cards/:card_id", cardHandler.Delete)
		authorized.POST("/boards/:id/cards/:card_id/move", cardHandler.Move)
		authorized.POST("/boards/:id/cards/:card_id/result", cardHandler.SetResult)

		// Drag and drop
		authorized.POST("/boards/:id/drag/start", dragHandler.Start)
		authorized.POST("/boards/:id/drag/enter", dragHandler.Enter)
		authorized.POST("/boards/:id/drag/leave", dragHandler.Leave)
		authorized.POST("/boards/:id/drag/drop", dragHandler.Drop)
		authorized.POST("/boards/:id/drag/cancel", dragHandler.Cancel)

		// Board sharing routes
		authorized.POST("/boards/:id/share", boardShareHandler.ShareBoard)
		authorized.DELETE("/boards/:id/share/:user_id", boardShareHandler.RemoveShare)
		authorized.GET("/boards/:id/share", boardShareHandler.GetBoardShares)
		authorized.GET("/shared-boards", boardShareHandler.GetSharedBoards)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Redis:  rc,
		Config: cfg,
		Logger: logger,
		tracer: tp,
	}, nil
}

func healthChecks(db *gorm.DB, rc *redis.Client) map[string]handler.Pinger {
	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	checks["redis"] = func(ctx context.Context) error {
		if rc == nil {
			return errors.New("redis not configured")
		}
		return rc.Ping(ctx).Err()
	}
	return checks
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Logger.WithField("port", s.Config.ServerPort).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.WithError(err).Fatal("failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.WithError(err).Error("server forced to shutdown")
	}
	s.close(ctx)

	s.Logger.Info("server exited properly")
}

func (s *Server) close(ctx context.Context) {
	if s.tracer != nil {
		if err := s.tracer.Shutdown(ctx); err != nil {
			s.Logger.WithError(err).Warn("tracer shutdown failed")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.WithError(err).Warn("redis close failed")
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.Logger.WithError(err).Warn("database close failed")
		}
	}
}
