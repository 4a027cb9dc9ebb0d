package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"artistlookup/internal/logging"
	"artistlookup/internal/lookup"
)

// LookupService resolves an artist name to albums or candidates.
type LookupService interface {
	Lookup(ctx context.Context, name string) (lookup.Result, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	lookup LookupService
}

// New configures a Server with the given lookup service.
func New(lookup LookupService) *Server {
	return &Server{lookup: lookup}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/artists", s.handleArtists).Methods(http.MethodGet)

	return router
}

// writeJSON encodes payload before touching the response so that an encoding
// failure can still be reported as a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("encode response")
		http.Error(w, msgUnexpected, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
