package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mindcare-bot/internal/app"
	"mindcare-bot/internal/config"
	apihttp "mindcare-bot/internal/http"
	"mindcare-bot/internal/metrics"
	"mindcare-bot/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	collector := metrics.New(cfg.MetricsNamespace)

	engine, err := app.BuildEngine(cfg, logger, collector)
	if err != nil {
		logger.Fatal("engine init", zap.Error(err))
	}

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage init", zap.Error(err))
	}
	defer stores.Close()

	resourceSvc := service.NewResourceService(stores.Resources, logger)
	if report, err := resourceSvc.Seed(ctx, service.DefaultResources()); err != nil {
		logger.Warn("seed support resources failed", zap.Error(err))
	} else {
		logger.Info("support resources ready", zap.Int("created", report.Created), zap.Int("updated", report.Updated))
	}

	conversationSvc := service.NewConversationService(service.ConversationDeps{
		Conversations: stores.Conversations,
		Messages:      service.NewMessageService(stores.Messages),
		Contexts:      stores.Contexts,
		Resources:     resourceSvc,
		Responder:     engine.Orchestrator,
		HistoryLimit:  cfg.ChatHistoryLimit,
		Logger:        logger,
	})
	moodSvc := service.NewMoodService(stores.Moods, stores.Conversations)

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if !jwtSvc.Enabled() {
		logger.Warn("jwt secret not configured, requests are anonymous")
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:       logger,
		Chat:         apihttp.NewChatHandler(logger, conversationSvc),
		Mood:         apihttp.NewMoodHandler(logger, moodSvc),
		Resources:    apihttp.NewResourceHandler(logger, resourceSvc),
		OptionalAuth: apihttp.OptionalAuthMiddleware(jwtSvc),
		RequireAuth:  apihttp.RequireAuthMiddleware(jwtSvc),
		Metrics:      collector.Handler(),
		Recorder:     collector,
		Limiter:      stores.Limiter,
		ModelEnabled: engine.Orchestrator.ModelEnabled(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Bool("model_enabled", engine.Orchestrator.ModelEnabled()),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
