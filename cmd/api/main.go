package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/heygen"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.HeyGenAPIKey == "" {
		logger.Warn().Msg("HEYGEN_API_KEY is not set; vendor calls will fail with 401")
	}

	vendor, err := heygen.NewClient(heygen.Options{
		APIKey:         cfg.HeyGenAPIKey,
		BaseURL:        cfg.HeyGenBaseURL,
		UploadBaseURL:  cfg.HeyGenUploadURL,
		ProxyURL:       cfg.OutboundProxyURL(),
		RequestTimeout: cfg.HeyGenTimeout,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build heygen client")
	}

	app := handlers.NewApp(vendor, cfg.AudioContentType, &logger)
	router := httpapi.NewRouter(app, logger, cfg.CORSAllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
