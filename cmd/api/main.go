package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	config "github.com/phillip/trust-manager-go/config"
	controllers "github.com/phillip/trust-manager-go/controllers"
	logging "github.com/phillip/trust-manager-go/logging"
	middleware "github.com/phillip/trust-manager-go/middleware"
	routes "github.com/phillip/trust-manager-go/routes"
	utils "github.com/phillip/trust-manager-go/utils"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	app := &controllers.App{Cfg: cfg, Log: logger}

	switch cfg.DataBackend {
	case config.BackendMemory:
		logger.Warn().Msg("using the in-memory data backend, nothing is persisted")
		app.Stores = controllers.MemoryStores()
	default:
		if err := cfg.Connect(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer func() { _ = cfg.MongoClient.Disconnect(context.Background()) }()

		stores, err := controllers.MongoStores(ctx, cfg.Database())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare collections")
		}
		app.Stores = stores
	}

	app.Media = media(cfg, logger)
	if cfg.ZeptoAPIURL != "" && cfg.ZeptoAPIKey != "" && cfg.EmailFrom != "" {
		app.Mail = utils.NewZeptoMail(cfg.ZeptoAPIURL, cfg.ZeptoAPIKey, cfg.EmailFrom)
	} else {
		logger.Warn().Msg("email not configured, meeting notices are disabled")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-None-Match", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"ETag", "Last-Modified", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.SetupRoutes(r, app)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func media(cfg *config.Config, logger zerolog.Logger) utils.Media {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		logger.Warn().Msg("cloudinary not configured, uploads are disabled")
		return nil
	}
	cld, err := utils.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure cloudinary")
	}
	return cld
}
