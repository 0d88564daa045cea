// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Noty-chan/aether-journal/internal/api"
	"github.com/Noty-chan/aether-journal/internal/app"
	"github.com/Noty-chan/aether-journal/internal/config"
	"github.com/Noty-chan/aether-journal/internal/di"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

func main() {
	// 1. Configuration (.env, then environment)
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Logger
	if err := app.InitLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := utils.GetLogger()
	defer logger.Close()
	logger.Info("Starting aether-journal", map[string]interface{}{
		"port":     cfg.Port,
		"campaign": cfg.CampaignPath,
		"debug":    bool(cfg.DebugMode),
	})

	// 3. Services
	container := di.GetContainer()
	application, err := app.InitServices(cfg, container)
	if err != nil {
		logger.Fatal("Failed to initialize services", map[string]interface{}{"error": err.Error()})
	}
	defer application.Close()

	// 4. Router
	router, err := api.SetupRouter()
	if err != nil {
		logger.Fatal("Failed to set up router", map[string]interface{}{"error": err.Error()})
	}

	runServer(router, cfg.Port, application, logger)
}

// runServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func runServer(router *gin.Engine, port string, application *app.App, logger *utils.Logger) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		logger.Error("Server failed", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Shutting down", nil)
	// Hijacked WebSocket connections are not tracked by Shutdown.
	application.WebSocket.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Server stopped", nil)
}
