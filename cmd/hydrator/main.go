package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogzap "github.com/samber/slog-zap/v2"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"account_hydrator/internal/app/service"
	"account_hydrator/internal/infrastructure/accountdir"
	"account_hydrator/internal/infrastructure/balanceapi"
	"account_hydrator/internal/infrastructure/chainrpc"
	"account_hydrator/internal/infrastructure/configloader"
	"account_hydrator/internal/infrastructure/ratesapi"
	"account_hydrator/internal/infrastructure/restapi"
	"account_hydrator/internal/pkg/logger"
	"account_hydrator/pkg/metrics"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// Bootstrap logger for everything that happens before zap is up.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfgPath := getEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Route the global slog logger through zap so both APIs end up in one
	// stream.
	slogLevel := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}
	slogHandler := slogzap.Option{Level: slogLevel, Logger: zapLogger}.NewZapHandler()
	slog.SetDefault(slog.New(slogHandler))

	logger.Info("Account hydration service starting...", "config", cfgPath)
	appLogger := logger.NewSlogAdapter()

	metrics.MustRegisterMetrics()

	// Infrastructure clients.
	balanceClient := balanceapi.NewClient(
		cfg.BalanceAPI.BaseURL,
		time.Duration(cfg.BalanceAPI.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	ratesClient := ratesapi.NewClient(
		cfg.RatesAPI.BaseURL,
		time.Duration(cfg.RatesAPI.RequestTimeoutMillis)*time.Millisecond,
		cfg.RatesAPI.MaxAssetsPerBatchRequest,
		time.Duration(cfg.RatesAPI.CacheTTLMinutes)*time.Minute,
		time.Duration(cfg.RatesAPI.CacheCleanupMinutes)*time.Minute,
		zapLogger,
	)
	rpcClient := chainrpc.NewClient(cfg.Networks, cfg.RPCClient, zapLogger)
	defer rpcClient.Close()
	logger.Info("Upstream clients initialized")

	directory := accountdir.NewDirectory(cfg.Accounts, appLogger)

	// Application services.
	balanceHydrator := service.NewBalanceHydrator(balanceClient, rpcClient, appLogger)
	fiatHydrator := service.NewFiatHydrator(ratesClient, appLogger)
	txHydrator := service.NewTransactionFiatHydrator(ratesClient, appLogger)
	orchestrator := service.NewRefreshOrchestrator(fiatHydrator, appLogger, cfg.Performance.MaxConcurrentRoutines)
	logger.Info("Hydration services initialized", "max_concurrent", cfg.Performance.MaxConcurrentRoutines)

	// HTTP API.
	router := gin.New()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(gin.Recovery())

	handler := restapi.NewAccountHandler(directory, balanceHydrator, fiatHydrator, txHydrator, orchestrator, cfg, appLogger)
	restapi.RegisterAccountRoutes(router, handler)

	if cfg.Swagger.Enabled {
		router.StaticFile("/docs/swagger.yaml", "./docs/swagger.yaml")
		swaggerURL := ginSwagger.URL("/docs/swagger.yaml")
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
		logger.Info("Swagger UI enabled", "path", "/swagger/index.html")
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Account hydration service stopped.")
}
