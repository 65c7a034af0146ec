// Route registration and go-chi router setup for the HTTP transport:
// a public health endpoint plus the MCP streamable-HTTP endpoint, the latter
// behind bearer auth whenever credentials are configured.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	apmiddleware "github.com/automationtools/n8n-mcp/internal/api/middleware"
)

// MCPPath is where the streamable-HTTP MCP endpoint is mounted.
const MCPPath = "/mcp"

// NewRouter creates the chi router fronting the MCP server.
func NewRouter(server *mcp.Server, authCfg apmiddleware.AuthConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check — unauthenticated, used by load balancers and probes.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	mcpHandler := mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server { return server },
		nil,
	)

	r.Route(MCPPath, func(r chi.Router) {
		if authCfg.Enabled() {
			r.Use(apmiddleware.Auth(authCfg))
		}
		r.Handle("/", mcpHandler)
		r.Handle("/*", mcpHandler)
	})

	return r
}
