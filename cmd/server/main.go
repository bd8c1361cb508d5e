package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskdesk/backend/api/handler"
	"github.com/taskdesk/backend/api/view"
	"github.com/taskdesk/backend/internal/config"
	"github.com/taskdesk/backend/internal/infrastructure/audit"
	"github.com/taskdesk/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskdesk/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskdesk/backend/internal/infrastructure/redis"
	"github.com/taskdesk/backend/internal/middleware"
	"github.com/taskdesk/backend/internal/router"
	"github.com/taskdesk/backend/internal/services"
	"github.com/taskdesk/backend/internal/services/lifecycle"
	"github.com/taskdesk/backend/pkg/httpcontext"
	"github.com/taskdesk/backend/pkg/logger"
	"github.com/taskdesk/backend/repository/postgres"
	redisRepo "github.com/taskdesk/backend/repository/redis"
	authUC "github.com/taskdesk/backend/usecase/auth"
	taskUC "github.com/taskdesk/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	auditStore, err := audit.Open(cfg.Audit.Path, "logins")
	if err != nil {
		zapLogger.Fatal("failed to open audit store", zap.Error(err))
	}
	manager.Register("audit", func(ctx context.Context) error {
		return auditStore.Close()
	})

	mon := monitor.New(pool, redisClient, auditStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	pruner := services.NewAuditPruner(auditStore, zapLogger, services.PrunerConfig{
		Interval:  cfg.Audit.PruneInterval,
		Retention: cfg.Audit.Retention,
	})
	pruner.Start()
	manager.Register("audit_pruner", func(ctx context.Context) error {
		pruner.Stop(ctx)
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	authUseCase := authUC.New(userRepo, sessionRepo, services.NewAuditRecorder(auditStore), zapLogger, cfg.Session.TTL)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	renderer := view.MustNew()

	handlers := router.Handlers{
		WebAuth:  apiHandler.NewWebAuthHandler(authUseCase, renderer, cfg.Session, ctxAdapter, zapLogger),
		WebTasks: apiHandler.NewWebTaskHandler(taskUseCase, renderer, ctxAdapter, zapLogger),
		Auth:     apiHandler.NewAuthHandler(authUseCase, cfg.JWT, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	sessionAuth := middleware.SessionAuth(authUseCase, cfg.Session.CookieName, zapLogger)
	jwtAuth := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, sessionAuth, jwtAuth)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
