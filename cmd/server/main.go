// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronoview/watchparser/internal/config"
	"github.com/chronoview/watchparser/internal/monitoring"
	"github.com/chronoview/watchparser/internal/server"
	"github.com/chronoview/watchparser/internal/utils"
)

func main() {
	configFile := ""
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
			os.Exit(2)
		}
		cfg = loaded
	}

	log := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.Logging.Level))

	var metrics *monitoring.Metrics
	if cfg.Metrics.Enabled {
		metrics = monitoring.New(monitoring.Config{Namespace: cfg.Metrics.Namespace})
	}

	handler, err := server.New(cfg, log, metrics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "server setup failed: %v\n", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      handler.Router(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("listening on %s", cfg.Server.ListenAddress)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}
