package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bellybutton/adapters/render"
	"bellybutton/internal/config"
	"bellybutton/internal/container"
	"bellybutton/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())
	logger := appContainer.Logger

	if err := appContainer.InitSource(ctx); err != nil {
		logger.Error("failed to initialize dataset source: %v", err)
		os.Exit(1)
	}

	surface := render.NewSurface()
	controller, err := appContainer.NewController(surface)
	if err != nil {
		logger.Error("failed to create controller: %v", err)
		os.Exit(1)
	}

	server, err := ui.NewServer(controller, surface, logger)
	if err != nil {
		logger.Error("failed to create dashboard server: %v", err)
		os.Exit(1)
	}

	app := ui.NewApp(ui.Config{
		Port:            appConfig.Server.Port,
		ShutdownTimeout: appConfig.Server.ShutdownTimeout,
	}, server, appContainer.Registry, logger)

	// The page is served while the dataset loads; a failed load is shown
	// on the page and can be retried from there
	go func() {
		if err := controller.Initialize(ctx); err != nil {
			logger.Warn("initial dataset load failed: %v", err)
			return
		}
		logger.Info("dashboard session %s ready", controller.SessionID())
	}()

	if err := app.Start(ctx); err != nil {
		logger.Error("server error: %v", err)
		os.Exit(1)
	}
}
