// Package server is the thin HTTP read surface over the store: one endpoint
// which merges stored firmware rows with live signing checks.
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/rs/cors"

	"github.com/m1stadev/beta-firmware-API/pkg/httputils/servermiddleware"
	"github.com/m1stadev/beta-firmware-API/pkg/service"
	"github.com/m1stadev/beta-firmware-API/pkg/storage/models"
)

// Server exposes the query operation over HTTP.
type Server struct {
	Service *service.Service
}

// New returns an instance of Server.
func New(svc *service.Service) *Server {
	return &Server{Service: svc}
}

// Handler returns the HTTP handler with the default middleware chain and
// allow-all CORS.
func (server *Server) Handler(obsBelt *belt.Belt, defaultLogLevel logger.Level) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/betas/", servermiddleware.AddDefaultMiddleware(
		server.handleBetas, obsBelt, true, defaultLogLevel,
	))
	return cors.AllowAll().Handler(mux)
}

func (server *Server) handleBetas(response http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	identifier := strings.TrimPrefix(request.URL.Path, "/betas/")
	if identifier == "" || strings.Contains(identifier, "/") {
		http.Error(response, "expected /betas/{identifier}", http.StatusNotFound)
		return
	}

	firmwares, err := server.Service.Betas(ctx, identifier)
	if err != nil {
		logger.FromCtx(ctx).Errorf("unable to answer the query for '%s': %v", identifier, err)
		http.Error(response, "internal error", http.StatusInternalServerError)
		return
	}
	if firmwares == nil {
		// a device with zero matching firmwares is an empty list, not an error
		firmwares = []models.Firmware{}
	}

	response.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(response).Encode(firmwares); err != nil {
		logger.FromCtx(ctx).Errorf("unable to encode the response: %v", err)
	}
}
