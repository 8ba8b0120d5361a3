package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"schedgen/internal/config"
	"schedgen/internal/ics"
	appLog "schedgen/internal/log"
	"schedgen/internal/schedule"
)

type flagConfig struct {
	configPath string
	outPath    string
	cronSpec   string
}

func main() {
	flags := parseFlags()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	tzName := cfg.Timezone
	loc, err := cfg.Location()
	if err != nil {
		appLog.Warn("unknown timezone, using UTC", "timezone", tzName)
	}

	urls := cfg.FeedURLs()
	fetcher := ics.NewFetcher()

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := schedule.Generate(ctx, cfg, fetcher, urls, flags.outPath, loc); err != nil {
		appLog.Error("failed to write schedule", err, "path", flags.outPath)
		os.Exit(1)
	}

	if flags.cronSpec == "" {
		return
	}

	// Scheduled mode: regenerate the snapshot from scratch on each tick
	// until interrupted. No state carries over between runs.
	c := cron.New()
	_, err = c.AddFunc(flags.cronSpec, func() {
		if err := schedule.Generate(ctx, cfg, fetcher, urls, flags.outPath, loc); err != nil {
			appLog.Error("scheduled run failed", err, "path", flags.outPath)
		}
	})
	if err != nil {
		appLog.Error("invalid cron spec", err, "cron", flags.cronSpec)
		os.Exit(1)
	}

	appLog.Info("scheduled mode", "cron", flags.cronSpec)
	c.Start()

	<-ctx.Done()

	// Stop returns a context that completes once any tick still in flight
	// has finished; wait for it so we never exit mid-write.
	<-c.Stop().Done()
	appLog.Info("schedgen exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "config.json", "Path to config file (.json, or .yaml/.yml)")
	flag.StringVar(&cfg.outPath, "out", "schedule.json", "Path to write the availability snapshot")
	flag.StringVar(&cfg.cronSpec, "cron", "", "Cron schedule for repeated regeneration (empty: run once and exit)")

	flag.Parse()

	return cfg
}
