package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farm-advisor/internal/config"
	"farm-advisor/internal/infra/handlers"
	"farm-advisor/internal/infra/logger"
	"farm-advisor/internal/infra/provider"
	"farm-advisor/internal/infra/routes"
	"farm-advisor/internal/infra/services"
	"farm-advisor/internal/middleware"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	log := logger.NewLogger(ctx, cfg.LogLevel, cfg.LogJSON)

	router := mux.NewRouter()
	router.Use(middleware.RequestMiddlewares(log)...)

	var speechProvider provider.ISpeechProvider
	googleSpeech, err := provider.NewGoogleSpeechProvider(ctx, log, cfg.Speech)
	if err != nil {
		log.Warn(fmt.Sprintf("Speech recognition disabled: %v", err))
		speechProvider = provider.UnavailableSpeechProvider{Reason: err}
	} else {
		speechProvider = googleSpeech
	}

	httpClient := &http.Client{Timeout: cfg.LLM.Timeout}

	advisoryService := services.NewAdvisoryService(log, httpClient, cfg.LLM)
	imageService := services.NewImageService(log, cfg.MaxImagePixels)
	speechService := services.NewSpeechService(log, speechProvider, cfg.Speech.Language)

	httpHandlers := handlers.NewHttpHandlers(
		log,
		advisoryService,
		imageService,
		speechService,
		cfg.MaxUploadBytes,
		cfg.LLM.ErrorsAsAnswer,
	)

	routes := routes.NewRoutes(router, httpHandlers)
	routes.Init()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           middleware.CORSMiddleware(cfg.AllowedOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s with model %s", cfg.Port, cfg.LLM.Model))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
