package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobpilot-automation/internal/api"
	"go-jobpilot-automation/internal/app"
	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/outcome"
	"go-jobpilot-automation/internal/reporter"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// each run launches and tears down its own browser
	run := func(ctx context.Context) (reporter.Summary, error) {
		ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()

		a, err := app.Start(ctx, cfg)
		if err != nil {
			return reporter.Summary{Error: err.Error()}, err
		}
		defer a.Close()
		return a.Runner.Run(ctx)
	}

	s := api.New(ctx, outcome.Open(cfg.Paths.LogDir), run)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: s.Router()}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	s.Wait()
}
