package main

import (
	"context"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"chessview/internal/cache"
	"chessview/internal/config"
	"chessview/internal/handlers"
	"chessview/internal/logging"
	"chessview/internal/session"
	"chessview/internal/source"
	"chessview/internal/storage"
	"chessview/internal/templates"
)

// setup loads configuration and initializes logging from it and the
// command's flags.
func setup(c *cli.Command) config.Config {
	cfg := config.Load()
	level := cfg.LogLevel
	if c.IsSet("level") {
		level = c.String("level")
	}
	if c.Bool("debug") {
		level = "debug"
	}
	logging.Init(level, c.Bool("dev"))
	return cfg
}

// newRegistry wires the platform fetchers. With a cache every remote
// platform is wrapped so repeated lookups skip the network.
func newRegistry(cfg config.Config, fc source.Cache) *source.Registry {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	reg := source.NewRegistry()
	remote := map[string]source.Fetcher{
		source.PlatformChessCom: &source.ChessCom{
			BaseURL:   cfg.ChessComURL,
			Client:    client,
			UserAgent: cfg.UserAgent,
			Limit:     cfg.FetchLimit,
		},
		source.PlatformLichess: &source.Lichess{
			BaseURL:   cfg.LichessURL,
			Client:    client,
			UserAgent: cfg.UserAgent,
			Limit:     cfg.FetchLimit,
		},
	}
	for name, f := range remote {
		if fc != nil {
			f = &source.Cached{Platform: name, Fetcher: f, Cache: fc, TTL: cfg.CacheTTL}
		}
		reg.Register(name, f)
	}
	reg.Register(source.PlatformSample, source.SampleFetcher{Label: "Sample"})
	return reg
}

func runServe(ctx context.Context, c *cli.Command) error {
	cfg := setup(c)
	defer logging.Sync()
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}

	templates.SetCommit(commit)

	var store *storage.Store
	if cfg.DatabaseURL != "" {
		db, err := storage.New(cfg.DatabaseURL)
		if err != nil {
			logging.Warnf("database unavailable, library disabled: %v", err)
		} else {
			store = storage.NewStore(db)
		}
	}

	var fc source.Cache
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rc, err := cache.Open(pingCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logging.Warnf("redis unavailable, fetch cache disabled: %v", err)
		} else {
			defer rc.Close()
			fc = rc
		}
	}

	// Initialize session hub
	hub := session.NewHub()

	h := handlers.NewHandler(hub, newRegistry(cfg, fc), store)

	logging.Infof("Chess Viewer %s listening on %s", commit, cfg.Addr)
	return http.ListenAndServe(cfg.Addr, handlers.NewRouter(h))
}
