package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/helljxnn/astrostar-backend-sub000/internal/config"
	"github.com/helljxnn/astrostar-backend-sub000/internal/infrastructure/repositories"
	"github.com/helljxnn/astrostar-backend-sub000/internal/interfaces/http/handlers"
	"github.com/helljxnn/astrostar-backend-sub000/internal/interfaces/http/middleware"
	"github.com/helljxnn/astrostar-backend-sub000/internal/interfaces/http/response"
	"github.com/helljxnn/astrostar-backend-sub000/internal/usecases"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/jwt"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/logger"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			TranslateError: true,
		})
	}
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	runServer = func(ctx context.Context, srv *http.Server) error {
		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))
	response.SetEnvironment(cfg.Server.Env)

	if cfg.Redis.Enabled {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redis.Close()
		logger.Info(ctx, "Redis initialized")
	} else {
		logger.Warn(ctx, "Redis disabled, Idempotency-Key replay is off")
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	if err := registerValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	clock := clockwork.NewRealClock()
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, clock)

	teamRepo := repositories.NewTeamRepository(db)
	memberRepo := repositories.NewTeamMemberRepository(db)
	personRepo := repositories.NewPersonRepository(db)
	uow := repositories.NewUnitOfWork(db)

	teamUsecase := usecases.NewTeamUsecase(teamRepo, memberRepo, personRepo, uow, clock)
	teamHandler := handlers.NewTeamHandler(teamUsecase)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.CORS.AllowedOrigins)
	registerHealthRoute(r, sqlDB.PingContext)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		teamHandler:    teamHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "AstroStar teams API starting", zap.String("port", cfg.Server.Port))
	if err := runServer(sigCtx, srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(ctx, "Server stopped")
	return nil
}
