package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"graph_router/pkg/api"
	"graph_router/pkg/config"
	"graph_router/pkg/layout"
	"graph_router/pkg/logger"
	"graph_router/pkg/osm"
	"graph_router/pkg/source"
)

// CLI holds the server flags. Every flag can also be set through its
// environment variable or a .env file.
type CLI struct {
	Addr          string        `help:"Listen address." env:"GRAPH_ROUTER_ADDR" default:"${addr}"`
	CORSOrigin    string        `name:"cors-origin" help:"CORS allowed origin (empty = same-origin)." env:"GRAPH_ROUTER_CORS_ORIGIN" default:"${cors}"`
	LogLevel      string        `help:"Log level (debug, info, warn, error)." env:"GRAPH_ROUTER_LOG_LEVEL" default:"${level}"`
	Graph         string        `help:"Graph file to preload (.yaml, .osm, .pbf)." env:"GRAPH_ROUTER_GRAPH_FILE" default:"${graph}"`
	Watch         bool          `help:"Reload the graph file when it changes."`
	Profile       string        `help:"OSM import profile (car, foot, any)." default:"car" enum:"car,foot,any"`
	Seed          uint64        `help:"Layout seed for graph files without coordinates (0 = random)."`
	MaxConcurrent int           `help:"Concurrent request limit." env:"GRAPH_ROUTER_MAX_CONCURRENT" default:"${concurrent}"`
	Timeout       time.Duration `help:"Per-request timeout." env:"GRAPH_ROUTER_REQUEST_TIMEOUT" default:"${timeout}"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}

	var cli CLI
	kong.Parse(&cli,
		kong.Name("graph-router"),
		kong.Description("Shortest-path HTTP service for small weighted graphs."),
		kong.UsageOnError(),
		kong.Vars{
			"addr":       cfg.Addr,
			"cors":       cfg.CORSOrigin,
			"level":      cfg.LogLevel,
			"graph":      cfg.GraphFile,
			"concurrent": strconv.Itoa(cfg.MaxConcurrent),
			"timeout":    cfg.RequestTimeout.String(),
		},
	)
	cfg.Addr = cli.Addr
	cfg.CORSOrigin = cli.CORSOrigin
	cfg.LogLevel = cli.LogLevel
	cfg.GraphFile = cli.Graph
	cfg.MaxConcurrent = cli.MaxConcurrent
	cfg.RequestTimeout = cli.Timeout

	l, err := logger.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatal("Invalid log level", "level", cfg.LogLevel, "err", err)
	}

	if err := run(cli, cfg, l); err != nil {
		l.Error("Server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cli CLI, cfg config.Config, l *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profile, err := osm.ParseProfile(cli.Profile)
	if err != nil {
		return err
	}
	opts := source.Options{OSM: osm.ParseOptions{Profile: profile, Logger: l}}
	canvas := layout.Canvas{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight, Margin: layout.DefaultCanvas().Margin}
	store := api.NewStore()

	publish := func(loaded *source.Loaded) {
		seed := cli.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		loaded.Place(canvas, seed)
		snap := store.Publish(loaded.Graph, loaded.Dropped, loaded.Path)
		l.Info("Graph ready", "graph_id", snap.ID, "nodes", len(loaded.Graph.Nodes), "edges", len(loaded.Graph.Edges), "dropped", loaded.Dropped)
	}

	if cfg.GraphFile != "" {
		start := time.Now()
		l.Info("Loading graph", "path", cfg.GraphFile)
		loaded, err := source.Load(ctx, cfg.GraphFile, opts)
		if err != nil {
			return err
		}
		publish(loaded)
		l.Info("Ready", "took", time.Since(start).Round(time.Millisecond))
	}

	handlers := api.NewHandlers(store, canvas, l)
	srv := api.NewServer(api.ConfigFrom(cfg), handlers, l)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.ListenAndServe(gctx, srv, l)
	})
	if cli.Watch && cfg.GraphFile != "" {
		g.Go(func() error {
			err := source.Watch(gctx, cfg.GraphFile, opts, l, publish)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
