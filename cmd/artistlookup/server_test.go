package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"artistlookup/internal/config"
	"artistlookup/internal/http/middleware"
)

func TestNewHTTPHandlerWiresStack(t *testing.T) {
	var gotUserAgent string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"artists":[]}`)
	}))
	defer upstream.Close()

	cfg := &config.Config{
		MusicBrainz: config.MusicBrainzConfig{
			BaseURL:   upstream.URL,
			UserAgent: "artistlookup/wiring-test",
			Timeout:   0,
			RateLimit: 0,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://app.test"}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/artists?name=x", nil)
	req.Header.Set("Origin", "http://app.test")
	rr := httptest.NewRecorder()
	newHTTPHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
	if gotUserAgent != "artistlookup/wiring-test" {
		t.Fatalf("upstream saw User-Agent %q", gotUserAgent)
	}
	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://app.test" {
		t.Fatalf("expected CORS header, got %v", rr.Header())
	}
}
