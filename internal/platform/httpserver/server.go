package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	curationservice "refinery/contexts/data-refinery/curation-service"
	marketplaceservice "refinery/contexts/data-refinery/marketplace-service"
	refinementservice "refinery/contexts/data-refinery/refinement-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "refinery/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	refinement  refinementservice.Module
	curation    curationservice.Module
	marketplace marketplaceservice.Module
}

func New(
	refinement refinementservice.Module,
	curation curationservice.Module,
	marketplace marketplaceservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		refinement:  refinement,
		curation:    curation,
		marketplace: marketplace,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerRefinementRoutes()
	s.registerCurationRoutes()
	s.registerMarketplaceRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
