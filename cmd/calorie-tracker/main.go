// cmd/calorie-tracker/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"calorie-tracker/internal/config"
	"calorie-tracker/internal/logging"
	"calorie-tracker/internal/reference"
	"calorie-tracker/internal/storage"
	"calorie-tracker/internal/tracker"
)

const version = "1.0.0"

const usage = `Usage: calorie-tracker [global flags] <command> [flags]

Commands:
  add      log a food, filling unset values from the reference table
  summary  print the day's totals
  reset    clear the log
  lookup   print a reference table row
  serve    run the web form and MCP tool server (SIGHUP rereads the reference table)
  version  print the version

Global flags:
  -c, -config FILE   JSON config file
  -log-backend NAME  json, sqlite or memory
  -log FILE          JSON log file
  -db FILE           SQLite database
  -reference FILE    default reference CSV table
  -host, -port       HTTP listen address
  -log-level LEVEL   debug, info, warn, error
  -log-format FMT    text or json
  -log-file FILE     write logs to a rotated file
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	catalog *reference.Catalog
	tracker *tracker.Service
	stdout  io.Writer
	stderr  io.Writer
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	command, cmdArgs := rest[0], rest[1:]
	switch command {
	case "version":
		fmt.Fprintf(stdout, "calorie-tracker version %s\n", version)
		return 0
	case "help":
		fmt.Fprint(stdout, usage)
		return 0
	}

	logOut := stderr
	if cfg.LogFile != "" {
		file := logging.RotatingFile(cfg.LogFile)
		defer file.Close()
		logOut = file
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	store, err := storage.Open(ctx, cfg.LogBackend, cfg.StorePath(), log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close log store")
		}
	}()

	catalog := reference.NewCatalog(reference.DefaultColumns, cfg.ReferenceCacheTTL, log)
	a := &app{
		cfg:     cfg,
		log:     log,
		catalog: catalog,
		tracker: tracker.NewService(store, catalog, cfg.ReferencePath, catalog.Columns(), log),
		stdout:  stdout,
		stderr:  stderr,
	}

	var cmdErr error
	switch command {
	case "add":
		cmdErr = a.add(ctx, cmdArgs)
	case "summary":
		cmdErr = a.summary(ctx, cmdArgs)
	case "reset":
		cmdErr = a.reset(ctx, cmdArgs)
	case "lookup":
		cmdErr = a.lookup(cmdArgs)
	case "serve":
		cmdErr = a.serve(ctx, cmdArgs)
	default:
		fmt.Fprintf(stderr, "Unknown command %q\n\n%s", command, usage)
		return 1
	}

	if errors.Is(cmdErr, flag.ErrHelp) {
		return 0
	}
	if cmdErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", cmdErr)
		return 1
	}
	return 0
}
