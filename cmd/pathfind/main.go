package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"graph_router/pkg/logger"
)

// CLI is the root command structure.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging."`
	Quiet   bool `short:"q" help:"Only log errors."`

	Route   RouteCmd   `cmd:"" help:"Find the shortest path between two nodes."`
	Convert ConvertCmd `cmd:"" help:"Convert an OpenStreetMap extract into a YAML graph file."`
}

// Globals is passed to every command.
type Globals struct {
	Out    io.Writer
	Logger *log.Logger
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pathfind"),
		kong.Description("Shortest paths over small weighted graphs."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	level := "info"
	switch {
	case cli.Verbose:
		level = "debug"
	case cli.Quiet:
		level = "error"
	}
	l, err := logger.New(level, os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	kctx.FatalIfErrorf(kctx.Run(&Globals{Out: os.Stdout, Logger: l}))
}
