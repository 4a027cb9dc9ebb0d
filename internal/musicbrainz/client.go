package musicbrainz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"artistlookup/internal/logging"
)

const (
	// DefaultBaseURL is the root of the public MusicBrainz web service.
	DefaultBaseURL = "https://musicbrainz.org/ws/2"

	// SearchLimit is the number of artists requested per search.
	SearchLimit = 30

	artistEndpoint       = "/artist"
	releaseGroupEndpoint = "/release-group"

	maxErrorBody = 512
)

var (
	// ErrUnavailable wraps transport-level failures: refused connections,
	// timeouts, DNS errors, or a cancelled wait for the rate limiter.
	ErrUnavailable = errors.New("musicbrainz unavailable")
	// ErrDecode wraps responses whose body is not the expected JSON.
	ErrDecode = errors.New("decode musicbrainz response")
)

// StatusError reports a non-2xx response from MusicBrainz.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("musicbrainz api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("musicbrainz api error: %d %s - %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Client talks to the MusicBrainz JSON web service. It holds no per-request
// state and is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithUserAgent sets the User-Agent sent with every request. MusicBrainz
// rejects or throttles anonymous clients, so this should identify the app.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRateLimit allows at most rps requests per second across all callers.
// A value of 0 or less disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a MusicBrainz client targeting the public service.
// Requests are not throttled unless WithRateLimit is given.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  "artistlookup/1.0",
		httpClient: NewHTTPClient(DefaultTransportConfig()),
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchArtists runs an artist search for name and returns every entry in the
// response, in upstream order.
func (c *Client) SearchArtists(ctx context.Context, name string) ([]ArtistCandidate, error) {
	params := url.Values{
		"query": []string{"artist:" + name},
		"fmt":   []string{"json"},
		"limit": []string{strconv.Itoa(SearchLimit)},
	}

	var result artistSearchResponse
	if err := c.doRequest(ctx, artistEndpoint, params, &result); err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}

	entries, err := decodeArray[artistEntry](result.Artists)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w: %w", ErrDecode, err)
	}

	artists := make([]ArtistCandidate, 0, len(entries))
	for _, e := range entries {
		artists = append(artists, ArtistCandidate{
			ID:    string(e.ID),
			Name:  string(e.Name),
			Score: int(e.Score),
			Type:  string(e.Type),
		})
	}
	return artists, nil
}

// ReleaseGroups lists the release groups of the artist with the given MBID,
// in upstream order.
func (c *Client) ReleaseGroups(ctx context.Context, artistID string) ([]Album, error) {
	params := url.Values{
		"artist": []string{artistID},
		"fmt":    []string{"json"},
	}

	var result releaseGroupResponse
	if err := c.doRequest(ctx, releaseGroupEndpoint, params, &result); err != nil {
		return nil, fmt.Errorf("list release groups: %w", err)
	}

	entries, err := decodeArray[releaseGroupEntry](result.ReleaseGroups)
	if err != nil {
		return nil, fmt.Errorf("list release groups: %w: %w", ErrDecode, err)
	}

	albums := make([]Album, 0, len(entries))
	for _, e := range entries {
		albums = append(albums, Album{
			ID:          string(e.ID),
			Title:       string(e.Title),
			ReleaseDate: string(e.FirstReleaseDate),
		})
	}
	return albums, nil
}

// wait blocks for a limiter token, no longer than the HTTP client timeout.
func (c *Client) wait(ctx context.Context) error {
	if c.httpClient.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}
	return c.limiter.Wait(ctx)
}

// doRequest performs a throttled GET against endpoint and decodes the JSON body into result
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("%w: wait for rate limiter: %w", ErrUnavailable, err)
	}

	apiURL := c.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Debug().
		Str("endpoint", endpoint).
		Int("status_code", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("MusicBrainz request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return fmt.Errorf("%w: invalid JSON body", ErrDecode)
	}
	// Anything other than an object carries none of the fields we read.
	if body[0] != '{' {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}
