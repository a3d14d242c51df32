package main

import (
	"net/http"

	httphandlers "finch/internal/interfaces/http"
	"finch/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes.
func SetupRoutes(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Link flow
	mux.HandleFunc("/api/link/token", deps.LinkHandler.HandleCreateLinkToken)
	mux.HandleFunc("/api/link/exchange", deps.LinkHandler.HandleExchangeToken)

	// On-demand sync
	mux.HandleFunc("/api/sync", deps.SyncHandler.HandleSync)

	return middleware.Logging(mux)
}
