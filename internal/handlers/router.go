// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/wms-ledger/internal/handlers/middleware"
	"github.com/ammerola/wms-ledger/internal/pkg/config"
)

const apiV1 = "/api/v1"

// Router bundles the handlers served by the API
type Router struct {
	Transactions *TransactionHandler
	Loads        *LoadHandler
	Locations    *LocationHandler
	Health       *HealthHandler
	RateLimiter  *middleware.RateLimiter
}

// Register adds every route to mux using method-specific patterns
func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+apiV1+"/transactions", rt.Transactions.CreateTransaction)
	mux.HandleFunc("GET "+apiV1+"/packages/{id}/transactions", rt.Transactions.ListPackageTransactions)

	mux.HandleFunc("POST "+apiV1+"/loads", rt.Loads.CreateLoad)
	mux.HandleFunc("GET "+apiV1+"/loads/{id}", rt.Loads.GetLoad)
	mux.HandleFunc("PATCH "+apiV1+"/loads/{id}/status", rt.Loads.UpdateLoadStatus)

	mux.HandleFunc("GET "+apiV1+"/products/{id}/locations", rt.Locations.ProductLocations)
	mux.HandleFunc("GET "+apiV1+"/packages/{id}", rt.Locations.PackageSummary)

	if rt.Health != nil {
		mux.HandleFunc("GET "+apiV1+"/health", rt.Health.Health)
		mux.HandleFunc("GET "+apiV1+"/ready", rt.Health.Readiness)
		mux.HandleFunc("GET /health", rt.Health.Health)
		mux.HandleFunc("GET /ready", rt.Health.Readiness)
	}
}

// Handler returns the routed mux wrapped in the middleware chain configured
// by cfg. Recovery sits inside RequestID so panics are reported with the ID.
func (rt *Router) Handler(cfg *config.Config, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	rt.Register(mux)

	mws := []middleware.Middleware{
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Recovery(logger),
		middleware.Logger(logger),
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if rt.RateLimiter != nil {
		mws = append(mws, rt.RateLimiter.Middleware)
	}
	mws = append(mws,
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.Compression,
		middleware.ActingUser(cfg.Security.UserIDHeader),
	)

	return middleware.Chain(mux, mws...)
}
