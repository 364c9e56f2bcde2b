package main

import (
	"chatwire/infrastructure/cache"
	"chatwire/infrastructure/db"
	"chatwire/infrastructure/events"
	"chatwire/infrastructure/media"
	"chatwire/infrastructure/ws"
	"chatwire/internal/config"
	httpHandler "chatwire/internal/delivery/http"
	"chatwire/internal/delivery/websocket"
	"chatwire/internal/observability"
	"chatwire/internal/repository"
	"chatwire/internal/usecase"
	"chatwire/pkg/jwt"
	"chatwire/pkg/logger"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoDb, err := db.NewMongoStore(ctx, db.MongoOptions{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() { _ = mongoDb.Close(context.Background()) }()
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongoDb.DB)
	groupRepo := repository.NewGroupRepository(mongoDb.DB)
	messageRepo := repository.NewMessageRepository(mongoDb.DB)

	if err := groupRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("group indexes: %w", err)
	}
	if err := messageRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("message indexes: %w", err)
	}

	var conversationCache cache.ICache
	if cfg.RedisAddr != "" {
		conversationCache = cache.NewRedisCache(cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := conversationCache.Ping(ctx); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	} else {
		conversationCache = cache.NewMemCache(time.Minute)
		logger.Info("using in-memory cache")
	}
	defer func() { _ = conversationCache.Close() }()

	mediaStore, err := media.NewGridFSStore(mongoDb.DB, cfg.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("media store: %w", err)
	}

	publisher := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer func() { _ = publisher.Close() }()
	logger.Info("event publisher ready", zap.String("mode", events.PublisherMode(publisher)))

	hub := ws.NewHub(logger)

	// Initialize use cases
	userUc := usecase.NewUserUseCase(userRepo)
	groupUc := usecase.NewGroupUseCase(groupRepo, userRepo, publisher, cfg.ValidateGroupMembers, logger)
	messageUc := usecase.NewMessageUseCase(messageRepo, groupRepo, userRepo, conversationCache, hub, mediaStore, publisher, logger)

	// Initialize handlers
	jwtManager := jwt.NewJWTManager(cfg.JWTSecret, 15*time.Minute)
	authMiddleware := httpHandler.NewAuthMiddleware(jwtManager, logger)
	websocketH := websocket.NewWebsocketHandler(hub, userUc, httpHandler.UserIdFromContext, cfg.FrontendURI, logger)
	hub.SetOnClientUnregister(websocketH.HandleUnregisterClient)

	go hub.Run()
	defer hub.Stop()

	httpH := httpHandler.NewHttpHandler(messageUc, groupUc, userUc, logger)
	mediaH := httpHandler.NewMediaHandler(mediaStore, logger)
	healthH := httpHandler.NewHealthHandler(map[string]httpHandler.Pinger{
		"mongodb": mongoDb,
		"cache":   conversationCache,
	}, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(observability.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(observability.HTTPMetrics)
	router.Use(httpHandler.CORS(cfg.FrontendURI))

	// Map routes
	httpHandler.MapHttpRoutes(router, httpH, mediaH, healthH, websocketH, authMiddleware)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server is running", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("http server is stopped")
	return nil
}
