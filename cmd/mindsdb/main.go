// mindsdb - LLM agents over a SQL query engine
// Task 1.1: Project Setup - Entry point

package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srilakshmipotnuru/mindsdb/internal/infra/config"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/sqlite"
	"github.com/srilakshmipotnuru/mindsdb/internal/server"
	"github.com/srilakshmipotnuru/mindsdb/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("mindsdb", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	switch fs.Arg(0) {
	case "serve":
		return runServe(out, fs.Args()[1:])
	case "mcp":
		return runMCP(out, fs.Args()[1:])
	case "migrate":
		return runMigrate(out)
	case "":
		// Default: print version
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	default:
		fmt.Fprintf(out, "unknown command %q\n", fs.Arg(0)) //nolint:errcheck
		printHelp(out)
		return 2
	}
}

// runServe starts the HTTP server and blocks until SIGINT/SIGTERM.
func runServe(out io.Writer, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", "", "Listen address (overrides HTTP_ADDR)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config error: %v\n", err) //nolint:errcheck
		return 1
	}
	// pkg/auth reads JWT_SECRET from the environment; propagate the config
	// value so file-based configuration works too.
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", cfg.JWTSecret) //nolint:errcheck
	}

	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintf(out, "database error: %v\n", err) //nolint:errcheck
		return 1
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Addr = cfg.HTTPAddr
	if *addr != "" {
		srvCfg.Addr = *addr
	}
	srv := server.NewServer(db, cfg, srvCfg)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(context.Background()) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		fmt.Fprintf(out, "server error: %v\n", err) //nolint:errcheck
		return 1
	case sig := <-sigCh:
		fmt.Fprintf(out, "received %s, shutting down\n", sig) //nolint:errcheck
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(out, "shutdown error: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

// runMCP serves the host-engine bridge tools over MCP stdio.
func runMCP(out io.Writer, args []string) int {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	allowWrites := fs.Bool("allow-writes", false, "Register the engine write tool")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config error: %v\n", err) //nolint:errcheck
		return 1
	}
	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintf(out, "database error: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close() //nolint:errcheck

	if err := server.RunMCPServer(context.Background(), db, server.MCPConfig{AllowWrites: *allowWrites}); err != nil {
		fmt.Fprintf(out, "mcp server error: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

// runMigrate applies pending migrations and exits.
func runMigrate(out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config error: %v\n", err) //nolint:errcheck
		return 1
	}
	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintf(out, "database error: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close() //nolint:errcheck

	fmt.Fprintln(out, "migrations applied") //nolint:errcheck
	return 0
}

// openDB opens the configured sqlite database with all migrations applied.
func openDB(cfg config.Config) (*sql.DB, error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", cfg.DBPath, err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func printHelp(out io.Writer) {
	helpText := `mindsdb - LLM agents over a SQL query engine

Usage:
  mindsdb [options] [command]

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve        Start the HTTP server (default addr :8080)
  mcp          Serve the engine bridge tools over MCP stdio
  migrate      Apply database migrations and exit

Examples:
  mindsdb --version
  mindsdb serve --addr :8080
  mindsdb mcp --allow-writes
  mindsdb migrate`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
