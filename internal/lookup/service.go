package lookup

import (
	"context"
	"fmt"
	"sort"

	"artistlookup/internal/logging"
	"artistlookup/internal/musicbrainz"
)

// ScoreThreshold is the score an artist must exceed to count as a candidate.
const ScoreThreshold = 85

// MusicBrainz captures the remote calls the lookup needs.
type MusicBrainz interface {
	SearchArtists(ctx context.Context, name string) ([]musicbrainz.ArtistCandidate, error)
	ReleaseGroups(ctx context.Context, artistID string) ([]musicbrainz.Album, error)
}

// Result is the outcome of a lookup. Exactly one artist matching yields its
// Albums; otherwise Candidates holds every match.
type Result struct {
	Albums     []musicbrainz.Album
	Candidates []musicbrainz.ArtistCandidate
	// Matched is set when a single candidate survived filtering.
	Matched *musicbrainz.ArtistCandidate
}

// Payload returns the value to serialize for the client.
func (r Result) Payload() any {
	if r.Matched != nil {
		return r.Albums
	}
	return r.Candidates
}

// Service resolves an artist name to albums or a candidate list.
type Service struct {
	mb MusicBrainz
}

// New constructs a lookup Service backed by the given client.
func New(mb MusicBrainz) *Service {
	return &Service{mb: mb}
}

// Lookup searches for name, keeps candidates scoring above ScoreThreshold and,
// when exactly one remains, returns that artist's albums sorted by release date.
func (s *Service) Lookup(ctx context.Context, name string) (Result, error) {
	artists, err := s.mb.SearchArtists(ctx, name)
	if err != nil {
		return Result{}, err
	}

	candidates := FilterCandidates(artists)
	logger := logging.FromContext(ctx)

	if len(candidates) != 1 {
		logger.Debug().
			Str("name", name).
			Int("artists", len(artists)).
			Int("candidates", len(candidates)).
			Msg("artist lookup returned candidates")
		return Result{Candidates: candidates}, nil
	}

	match := candidates[0]
	albums, err := s.mb.ReleaseGroups(ctx, match.ID)
	if err != nil {
		return Result{}, fmt.Errorf("albums for artist %s: %w", match.ID, err)
	}
	if albums == nil {
		albums = []musicbrainz.Album{}
	}
	SortByReleaseDate(albums)

	logger.Debug().
		Str("name", name).
		Str("artist_id", match.ID).
		Int("albums", len(albums)).
		Msg("artist lookup matched a single artist")

	return Result{Albums: albums, Candidates: candidates, Matched: &match}, nil
}

// FilterCandidates keeps the artists whose score is strictly above
// ScoreThreshold, preserving order. It never returns nil.
func FilterCandidates(artists []musicbrainz.ArtistCandidate) []musicbrainz.ArtistCandidate {
	candidates := make([]musicbrainz.ArtistCandidate, 0, len(artists))
	for _, a := range artists {
		if a.Score > ScoreThreshold {
			candidates = append(candidates, a)
		}
	}
	return candidates
}

// SortByReleaseDate orders albums by their release date string, oldest first.
// Dates are compared as plain strings, so partial dates ("1969") sort before
// full dates of the same year and undated albums come first. Ties keep their
// input order.
func SortByReleaseDate(albums []musicbrainz.Album) {
	sort.SliceStable(albums, func(i, j int) bool {
		return albums[i].ReleaseDate < albums[j].ReleaseDate
	})
}
