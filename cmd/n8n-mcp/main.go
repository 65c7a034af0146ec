// n8n-mcp — an MCP server exposing workflow, execution and tag operations of
// an n8n instance as tools. Serves MCP over stdio by default, or over
// streamable HTTP with --http.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/automationtools/n8n-mcp/internal/api"
	apmiddleware "github.com/automationtools/n8n-mcp/internal/api/middleware"
	"github.com/automationtools/n8n-mcp/internal/domain/audit"
	"github.com/automationtools/n8n-mcp/internal/domain/tool"
	"github.com/automationtools/n8n-mcp/internal/infra/config"
	"github.com/automationtools/n8n-mcp/internal/infra/eventbus"
	"github.com/automationtools/n8n-mcp/internal/infra/sqlite"
	"github.com/automationtools/n8n-mcp/internal/mcpserver"
	"github.com/automationtools/n8n-mcp/internal/n8n"
	"github.com/automationtools/n8n-mcp/internal/server"
	"github.com/automationtools/n8n-mcp/internal/version"
	pkgauth "github.com/automationtools/n8n-mcp/pkg/auth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin))
}

func run(args []string, out, errOut io.Writer, in io.Reader) int {
	if len(args) > 0 {
		switch args[0] {
		case "token":
			return runToken(args[1:], out, errOut)
		case "hash-token":
			return runHashToken(out, errOut, in)
		case "serve":
			args = args[1:]
		}
	}

	fs := flag.NewFlagSet("n8n-mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config", "", "Path to a YAML config file (overrides environment)")
	httpAddr := fs.String("http", "", "Serve MCP over streamable HTTP on this address instead of stdio")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, "invalid arguments; see --help") //nolint:errcheck
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

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(errOut, err) //nolint:errcheck
		return 1
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	if err := serve(cfg, *httpAddr != "", errOut); err != nil {
		fmt.Fprintln(errOut, err) //nolint:errcheck
		return 1
	}
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(), nil
}

// serve wires the full stack — remote client, registry, dispatcher, optional
// audit log — and blocks until the process is signalled.
func serve(cfg config.Config, useHTTP bool, errOut io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := n8n.NewClient(n8n.Config{
		BaseURL:  cfg.N8NBaseURL,
		APIKey:   cfg.N8NAPIKey,
		User:     cfg.N8NUser,
		Password: cfg.N8NPassword,
		Timeout:  cfg.CallTimeout,
	})

	registry := tool.NewRegistry()
	if err := tool.RegisterCatalog(registry, client); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	var bus eventbus.EventBus
	if cfg.AuditDBPath != "" {
		db, err := sqlite.NewDB(cfg.AuditDBPath)
		if err != nil {
			return fmt.Errorf("open audit db: %w", err)
		}
		defer db.Close() //nolint:errcheck
		if err := sqlite.MigrateUp(db); err != nil {
			return fmt.Errorf("migrate audit db: %w", err)
		}

		b := eventbus.New()
		go audit.NewRecorder(db).Consume(ctx, b)
		bus = b
	}

	dispatcher := tool.NewDispatcher(registry, cfg.CallTimeout, bus)
	mcpServer := mcpserver.New(registry, dispatcher)

	if !useHTTP {
		return mcpserver.RunStdio(ctx, mcpServer)
	}

	authCfg := apmiddleware.AuthConfig{AccessTokenHash: cfg.AccessTokenHash}
	if cfg.JWTSecret != "" {
		authCfg.JWTSecret = []byte(cfg.JWTSecret)
	}
	if !authCfg.Enabled() {
		fmt.Fprintln(errOut, "warning: serving HTTP without authentication; set MCP_JWT_SECRET or MCP_ACCESS_TOKEN_HASH") //nolint:errcheck
	}

	router := api.NewRouter(mcpServer, authCfg)
	srv := server.New(router, server.DefaultConfig(cfg.HTTPAddr))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	fmt.Fprintf(errOut, "serving MCP on http://%s%s\n", srv.Addr(), api.MCPPath) //nolint:errcheck

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// runToken mints a JWT for the HTTP transport using MCP_JWT_SECRET.
func runToken(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("n8n-mcp token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	subject := fs.String("subject", "agent", "Subject claim for the minted token")
	ttl := fs.Duration("ttl", pkgauth.DefaultTokenTTL, "Token lifetime")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, "invalid arguments; see --help") //nolint:errcheck
		return 2
	}

	secret := os.Getenv("MCP_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(errOut, "MCP_JWT_SECRET is not set") //nolint:errcheck
		return 1
	}

	token, err := pkgauth.MintJWT([]byte(secret), *subject, *ttl)
	if err != nil {
		fmt.Fprintln(errOut, err) //nolint:errcheck
		return 1
	}

	fmt.Fprintln(out, token) //nolint:errcheck
	return 0
}

// runHashToken reads an access token from stdin and prints its bcrypt hash,
// ready for MCP_ACCESS_TOKEN_HASH.
func runHashToken(out, errOut io.Writer, in io.Reader) int {
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		fmt.Fprintln(errOut, "no token on stdin") //nolint:errcheck
		return 1
	}

	token := strings.TrimSpace(scanner.Text())
	if token == "" {
		fmt.Fprintln(errOut, "no token on stdin") //nolint:errcheck
		return 1
	}

	hash, err := pkgauth.HashToken(token)
	if err != nil {
		fmt.Fprintln(errOut, err) //nolint:errcheck
		return 1
	}

	fmt.Fprintln(out, hash) //nolint:errcheck
	return 0
}

func printHelp(out io.Writer) {
	helpText := `n8n-mcp — MCP server for n8n

Usage:
  n8n-mcp [serve] [options]     Serve MCP over stdio (default) or HTTP
  n8n-mcp token [options]       Mint a JWT for the HTTP transport
  n8n-mcp hash-token            Hash an access token read from stdin

Options:
  --version        Show version information
  --help           Show this help message
  --config PATH    Load a YAML config file on top of the environment
  --http ADDR      Serve streamable HTTP on ADDR instead of stdio

Environment:
  N8N_BASE_URL, N8N_API_KEY, N8N_USER, N8N_PASSWORD
  MCP_HTTP_ADDR, MCP_JWT_SECRET, MCP_ACCESS_TOKEN_HASH
  MCP_CALL_TIMEOUT, MCP_AUDIT_DB

Examples:
  n8n-mcp --version
  N8N_API_KEY=... n8n-mcp serve
  n8n-mcp serve --http 127.0.0.1:8080 --config /etc/n8n-mcp.yaml`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
