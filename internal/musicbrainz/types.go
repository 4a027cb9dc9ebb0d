package musicbrainz

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ArtistCandidate is one entry of an artist search result.
type ArtistCandidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Type  string `json:"type"`
}

// Album is a release group belonging to an artist.
type Album struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release-date"`
}

// MusicBrainz API response structures. Only the fields we read are declared.
type artistSearchResponse struct {
	Artists json.RawMessage `json:"artists"`
}

type artistEntry struct {
	ID    text  `json:"id"`
	Name  text  `json:"name"`
	Score score `json:"score"`
	Type  text  `json:"type"`
}

type releaseGroupResponse struct {
	ReleaseGroups json.RawMessage `json:"release-groups"`
}

type releaseGroupEntry struct {
	ID               text `json:"id"`
	Title            text `json:"title"`
	FirstReleaseDate text `json:"first-release-date"`
}

// text decodes any JSON scalar into its textual form. null and
// structured values become "".
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	case data[0] == '{' || data[0] == '[':
		*t = ""
	default:
		*t = text(data)
	}
	return nil
}

// score decodes a JSON number or numeric string. Anything else is 0.
type score int

func (s *score) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*s = score(n)
		return nil
	}
	// Out of range floats come back as ±Inf with ErrRange and are clamped below.
	if f, err := strconv.ParseFloat(raw, 64); (err == nil || errors.Is(err, strconv.ErrRange)) && !math.IsNaN(f) {
		switch {
		case f >= math.MaxInt:
			*s = score(math.MaxInt)
		case f <= math.MinInt:
			*s = score(math.MinInt)
		default:
			*s = score(int(f))
		}
		return nil
	}

	*s = 0
	return nil
}

// decodeArray decodes the elements of a JSON array. A missing, null, or
// non-array value yields an empty slice; elements that are not objects decode
// to the zero value.
func decodeArray[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []T{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}

	entries := make([]T, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			continue
		}
		if err := json.Unmarshal(elem, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
