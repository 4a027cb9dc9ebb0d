package lookup

import (
	"context"
	"errors"
	"testing"

	"artistlookup/internal/musicbrainz"
)

type stubMusicBrainz struct {
	artists   []musicbrainz.ArtistCandidate
	searchErr error

	albums     []musicbrainz.Album
	albumsErr  error
	albumCalls int

	lastName     string
	lastArtistID string
}

func (s *stubMusicBrainz) SearchArtists(ctx context.Context, name string) ([]musicbrainz.ArtistCandidate, error) {
	s.lastName = name
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.artists, nil
}

func (s *stubMusicBrainz) ReleaseGroups(ctx context.Context, artistID string) ([]musicbrainz.Album, error) {
	s.albumCalls++
	s.lastArtistID = artistID
	if s.albumsErr != nil {
		return nil, s.albumsErr
	}
	return s.albums, nil
}

func TestFilterCandidates(t *testing.T) {
	tests := []struct {
		name    string
		scores  []int
		wantIDs []string
	}{
		{name: "none", scores: nil, wantIDs: []string{}},
		{name: "threshold is exclusive", scores: []int{85, 86}, wantIDs: []string{"1"}},
		{name: "all below", scores: []int{10, 0, 85}, wantIDs: []string{}},
		{name: "order preserved", scores: []int{94, 20, 100, 99}, wantIDs: []string{"0", "2", "3"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var artists []musicbrainz.ArtistCandidate
			for i, score := range tc.scores {
				artists = append(artists, musicbrainz.ArtistCandidate{ID: string(rune('0' + i)), Score: score})
			}

			got := FilterCandidates(artists)
			if got == nil {
				t.Fatalf("FilterCandidates returned nil")
			}
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d candidates, want %d", len(got), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if got[i].ID != id {
					t.Fatalf("candidate %d id = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSortByReleaseDate(t *testing.T) {
	albums := []musicbrainz.Album{
		{ID: "abbey", ReleaseDate: "1969-09-26"},
		{ID: "undated-1"},
		{ID: "pleaseplease", ReleaseDate: "1963-03-22"},
		{ID: "year-only", ReleaseDate: "1969"},
		{ID: "undated-2"},
		{ID: "help", ReleaseDate: "1965-08-06"},
	}

	SortByReleaseDate(albums)

	want := []string{"undated-1", "undated-2", "pleaseplease", "help", "year-only", "abbey"}
	for i, id := range want {
		if albums[i].ID != id {
			t.Fatalf("position %d = %q, want %q (full order %+v)", i, albums[i].ID, id, albums)
		}
	}
}

func TestLookupSingleMatchFetchesAlbums(t *testing.T) {
	mb := &stubMusicBrainz{
		artists: []musicbrainz.ArtistCandidate{
			{ID: "1", Name: "The Beatles", Score: 100},
			{ID: "2", Name: "Beatles Tribute", Score: 40},
		},
		albums: []musicbrainz.Album{
			{ID: "b", Title: "Abbey Road", ReleaseDate: "1969-09-26"},
			{ID: "a", Title: "Please Please Me", ReleaseDate: "1963-03-22"},
		},
	}

	result, err := New(mb).Lookup(context.Background(), "The Beatles")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if mb.lastName != "The Beatles" || mb.lastArtistID != "1" {
		t.Fatalf("unexpected calls name=%q artist=%q", mb.lastName, mb.lastArtistID)
	}
	if result.Matched == nil || result.Matched.ID != "1" {
		t.Fatalf("expected matched artist 1, got %+v", result.Matched)
	}

	albums, ok := result.Payload().([]musicbrainz.Album)
	if !ok {
		t.Fatalf("payload should be albums, got %T", result.Payload())
	}
	if len(albums) != 2 || albums[0].ID != "a" || albums[1].ID != "b" {
		t.Fatalf("albums not sorted by release date: %+v", albums)
	}
}

func TestLookupReturnsCandidates(t *testing.T) {
	tests := []struct {
		name    string
		artists []musicbrainz.ArtistCandidate
		want    int
	}{
		{
			name: "several matches",
			artists: []musicbrainz.ArtistCandidate{
				{ID: "b711d64a-32d1-4605-a366-0205d7256dc3", Name: "Griff", Score: 100, Type: "Person"},
				{ID: "84b8a3bc-7e45-4b1e-a34c-bb1a99b7bf5e", Name: "Griff", Score: 99, Type: "Group"},
				{ID: "bfd3b074-9d65-4bb9-9e14-ee1a84390304", Name: "Griff", Score: 94},
				{ID: "x", Name: "Griffin", Score: 70},
			},
			want: 3,
		},
		{
			name:    "no matches",
			artists: []musicbrainz.ArtistCandidate{{ID: "x", Score: 50}},
			want:    0,
		},
		{
			name: "empty search",
			want: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mb := &stubMusicBrainz{artists: tc.artists}

			result, err := New(mb).Lookup(context.Background(), "Griff")
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if mb.albumCalls != 0 {
				t.Fatalf("release groups must not be fetched, got %d calls", mb.albumCalls)
			}
			if result.Matched != nil {
				t.Fatalf("unexpected match %+v", result.Matched)
			}

			candidates, ok := result.Payload().([]musicbrainz.ArtistCandidate)
			if !ok {
				t.Fatalf("payload should be candidates, got %T", result.Payload())
			}
			if candidates == nil || len(candidates) != tc.want {
				t.Fatalf("got %#v, want %d candidates", candidates, tc.want)
			}
		})
	}
}

func TestLookupPropagatesErrors(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		mb := &stubMusicBrainz{searchErr: musicbrainz.ErrUnavailable}

		_, err := New(mb).Lookup(context.Background(), "x")
		if !errors.Is(err, musicbrainz.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("release groups", func(t *testing.T) {
		mb := &stubMusicBrainz{
			artists:   []musicbrainz.ArtistCandidate{{ID: "1", Score: 100}},
			albumsErr: musicbrainz.ErrDecode,
		}

		result, err := New(mb).Lookup(context.Background(), "x")
		if !errors.Is(err, musicbrainz.ErrDecode) {
			t.Fatalf("expected ErrDecode, got %v", err)
		}
		if result.Albums != nil || result.Candidates != nil {
			t.Fatalf("no partial result expected, got %+v", result)
		}
	})
}
