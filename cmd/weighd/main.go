package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weighbridge-backend/config"
	"weighbridge-backend/internal/api"
	"weighbridge-backend/internal/db"
	"weighbridge-backend/internal/render"
	"weighbridge-backend/internal/scale"
	"weighbridge-backend/internal/store"
	"weighbridge-backend/internal/weighing"
)

func main() {
	logger := log.New(os.Stdout, "weighd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	// The reader is always constructed so the engine has a weight source;
	// it only starts polling when a port is known.
	portName := cfg.Scale.Port
	if cfg.Scale.Enabled && portName == "" {
		if found, ok := scale.FindScalePort(); ok {
			portName = found
		} else {
			logger.Println("no scale-like serial port found; live weight will stay at its initial value")
		}
	}
	reader := scale.NewReader(portName, cfg.Scale, scale.OpenSerial)
	if cfg.Scale.Enabled && portName != "" {
		reader.Start()
		logger.Printf("scale reader started on %s", portName)
	}

	svc := weighing.NewService(appStore, reader)
	renderer := render.NewRenderer(cfg.Branding)

	var pool *render.Pool
	if cfg.Render.Auto {
		pool = render.NewPool(cfg.Render.WorkerPoolSize, appStore, renderer, cfg.Render.OutputDir)
		pool.Start(ctx)
		logger.Printf("render pool started with %d workers", cfg.Render.WorkerPoolSize)
	}

	handler := api.NewHandler(svc, appStore, renderer, pool)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	reader.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
