package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/config"
	"github.com/jetfront/jetfront/internal/pkg/health"
	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/middleware"
	"github.com/jetfront/jetfront/internal/pkg/natsclient"
	"github.com/jetfront/jetfront/internal/pkg/server"
	"github.com/jetfront/jetfront/services/gateway/broker"
	"github.com/jetfront/jetfront/services/gateway/handler"
	"github.com/jetfront/jetfront/services/gateway/usecase"
)

func main() {
	configPath := "config/gateway.env"
	configs := config.InitConfig(configPath)

	zapLogger, err := logger.NewZapLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", configs.App.Name),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment))

	natsClient, err := natsclient.New(configs.NATS)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS with JetStream", logger.Err(err))
	}
	defer natsClient.Close()

	logger.Info("JetStream client initialized successfully",
		logger.String("url", configs.NATS.URL),
		logger.Bool("connected", natsClient.IsConnected()))

	gatewayGW := broker.New(natsClient)
	gatewayUC := usecase.NewGatewayUC(configs, gatewayGW)
	gatewayHandler := handler.NewHandler(gatewayUC, configs)
	healthHandler := health.NewHandler(natsClient, configs.App)

	e := echo.New()
	e.HideBanner = true

	// Panic recovery first so it wraps everything downstream
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(middleware.RequestLoggerMiddleware(zapLogger))

	gatewayHandler.RegisterRoutes(e, healthHandler)

	shutdownManager := server.NewShutdownManager(zapLogger)
	shutdownManager.Register(func(context.Context) error {
		natsClient.Close()
		return nil
	})

	shutdownTimeout := time.Duration(configs.Server.ShutdownTimeout) * time.Second
	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port, shutdownTimeout)
	if err := srv.Start(); err != nil {
		zapLogger.Error("Server shutdown with error", logger.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownManager.Shutdown(ctx); err != nil {
		zapLogger.Error("Component shutdown finished with errors", logger.Err(err))
	}
}
