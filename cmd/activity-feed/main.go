package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vilaca/activity-feed/internal/api"
	"github.com/vilaca/activity-feed/internal/api/github"
	"github.com/vilaca/activity-feed/internal/config"
	"github.com/vilaca/activity-feed/internal/feed"
	"github.com/vilaca/activity-feed/internal/metrics"
	"github.com/vilaca/activity-feed/internal/render"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.GitHubToken == "" {
		log.Printf("WARNING: No GITHUB_TOKEN set, unauthenticated requests are heavily rate-limited")
	}

	// Wire up dependencies (Dependency Injection / IoC)
	assembler := buildAssembler(cfg)

	if cfg.MetricsAddr != "" {
		startMetricsServer(cfg.MetricsAddr)
	}

	opts := buildOptions(cfg)
	if opts.Mode == feed.ModeRepository {
		log.Printf("Assembling activity feed for repository %s/%s", opts.Owner, opts.Repo)
	} else {
		log.Printf("Assembling activity feed for %s %s", opts.Account, opts.Login)
	}

	activity, err := assembler.Assemble(context.Background(), opts)
	if err != nil {
		log.Fatalf("Failed to assemble activity feed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(activity); err != nil {
		log.Fatalf("Failed to write feed: %v", err)
	}
}

// startMetricsServer exposes the Prometheus collectors on addr for the
// duration of the run.
func startMetricsServer(addr string) {
	metrics.Init()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Printf("Serving metrics on %s/metrics", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Metrics server failed: %v", err)
		}
	}()
}

// buildAssembler wires up all dependencies and returns the configured assembler.
// This is the composition root where all dependencies are created and injected.
func buildAssembler(cfg *config.Config) *feed.Assembler {
	httpClient := &http.Client{
		Timeout: 30 * time.Second, // Set reasonable timeout for API requests
	}

	client := github.NewClient(api.ClientConfig{
		BaseURL: cfg.GitHubURL,
		Token:   cfg.GitHubToken,
	}, httpClient)

	return feed.NewAssembler(client, render.NewMarkdownRenderer())
}

// buildOptions maps configuration to feed assembly options.
func buildOptions(cfg *config.Config) feed.Options {
	opts := feed.Options{
		Login:          cfg.Login,
		Account:        cfg.Account,
		Mode:           feed.ModeUser,
		Days:           cfg.Feed.Days,
		Filter:         cfg.Feed.Filter,
		Ignored:        cfg.Feed.Ignored,
		Limit:          cfg.Feed.Limit,
		Load:           cfg.Feed.Load,
		Skipped:        cfg.Feed.Skipped,
		Timestamps:     cfg.Feed.Timestamps,
		Visibility:     cfg.Feed.Visibility,
		Markdown:       cfg.Feed.Markdown,
		Codelines:      cfg.Feed.Codelines,
		MaxConcurrency: cfg.Feed.MaxConcurrency,
	}

	if cfg.HasRepo() {
		if owner, name, ok := cfg.RepoOwnerName(); ok {
			opts.Mode = feed.ModeRepository
			opts.Owner = owner
			opts.Repo = name
		}
	}

	return opts
}
