package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftcoach/internal/catalog"
	"github.com/claude/liftcoach/internal/config"
	"github.com/claude/liftcoach/internal/mcp"
	"github.com/claude/liftcoach/internal/planner"
	"github.com/claude/liftcoach/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remoteURL := flag.String("remote", "", "base URL of a running LiftCoach server (remote mode, e.g. http://liftcoach:80)")
	flag.Parse()

	// Logs go to stderr; stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cat, err := catalog.Load()
	if err != nil {
		log.Error("failed to load exercise catalog", "error", err)
		os.Exit(1)
	}

	var ds mcp.DataSource
	var cfg *config.Config
	var stdioOpts []server.StdioOption

	if *remoteURL != "" {
		// The remote server scopes requests to its own user.
		ds = mcp.NewHTTPClient(*remoteURL)
		log.Info("remote mode", "url", *remoteURL)
	} else {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		userID, err := db.GetOrCreateUser(context.Background(), "local", "Local Lifter")
		if err != nil {
			log.Error("failed to resolve user", "error", err)
			os.Exit(1)
		}
		stdioOpts = append(stdioOpts, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
			return mcp.WithUserID(ctx, userID)
		}))
		ds = db
		log.Info("local mode", "database", cfg.Database.Name, "user_id", userID)
	}

	coach := config.CoachConfig{}
	if cfg != nil {
		coach = cfg.Coach
	}
	pl := planner.New(cat, coach.StallConfig())

	s := mcp.New(ds, cat, pl, coach.Inventory(), Version, log)
	if err := server.ServeStdio(s, stdioOpts...); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
