package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-jobpilot-automation/internal/app"
	"go-jobpilot-automation/internal/config"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("🏁 Execution finished.")
}

func run(configPath string) error {
	//load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log.Printf("🔧 Config loaded. Keywords: %v, sites: %v", cfg.Keywords, cfg.EnabledSites())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	log.Println("🚀 Starting JobPilot...")
	a, err := app.Start(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser: %v", err)
		}
	}()

	summary, err := a.Runner.Run(ctx)
	if err != nil {
		return err
	}
	log.Printf("📁 Results saved to %s", cfg.Paths.LogDir)
	log.Printf("📊 %d/%d applications succeeded", summary.Succeeded, summary.Selected)
	return nil
}
