package httpapi

import (
	"errors"
	"net/http"

	"artistlookup/internal/logging"
	"artistlookup/internal/musicbrainz"
)

const (
	msgUnavailable = "Failed to access MusicBrainz API"
	msgUnexpected  = "An unexpected error occurred"
	msgMissingName = "Required request parameter 'name' is not present"
)

// handleArtists looks up an artist by name. A single confident match yields
// the artist's albums; anything else yields the list of confident matches.
func (s *Server) handleArtists(w http.ResponseWriter, r *http.Request) {
	values, ok := r.URL.Query()["name"]
	if !ok || len(values) == 0 {
		http.Error(w, msgMissingName, http.StatusBadRequest)
		return
	}
	name := values[0]

	result, err := s.lookup.Lookup(r.Context(), name)
	if err != nil {
		logger := logging.FromContext(r.Context())
		if errors.Is(err, musicbrainz.ErrUnavailable) {
			logger.Error().Err(err).Str("name", name).Msg("MusicBrainz unreachable")
			http.Error(w, msgUnavailable, http.StatusInternalServerError)
			return
		}
		logger.Error().Err(err).Str("name", name).Msg("artist lookup failed")
		http.Error(w, msgUnexpected, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, result.Payload())
}
