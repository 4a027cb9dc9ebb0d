package main

import (
	"net/http"

	"artistlookup/internal/config"
	"artistlookup/internal/http/middleware"
	"artistlookup/internal/httpapi"
	"artistlookup/internal/lookup"
	"artistlookup/internal/musicbrainz"
)

func newHTTPHandler(cfg *config.Config) http.Handler {
	transport := musicbrainz.DefaultTransportConfig()
	transport.Timeout = cfg.MusicBrainz.Timeout

	mbClient := musicbrainz.NewClient(
		musicbrainz.WithBaseURL(cfg.MusicBrainz.BaseURL),
		musicbrainz.WithUserAgent(cfg.MusicBrainz.UserAgent),
		musicbrainz.WithHTTPClient(musicbrainz.NewHTTPClient(transport)),
		musicbrainz.WithRateLimit(cfg.MusicBrainz.RateLimit),
	)

	lookupSvc := lookup.New(mbClient)

	var handler http.Handler = httpapi.New(lookupSvc).Routes()
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)

	return handler
}
