// Package songs provides built-in scores.
package songs

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"go-sounddeck/score"
)

// ErrNotFound is returned by ByID for an unknown song
var ErrNotFound = errors.New("song not found")

//go:embed data/*.yaml
var files embed.FS

// Song is a built-in score
type Song struct {
	ID    string
	Title string
	Score *score.Score
}

var catalog []Song

func init() {
	entries, err := files.ReadDir("data")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		data, err := files.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			panic(err)
		}
		s, err := score.Parse(data)
		if err != nil {
			panic(fmt.Sprintf("songs: %s: %v", e.Name(), err))
		}
		catalog = append(catalog, Song{
			ID:    strings.TrimSuffix(e.Name(), path.Ext(e.Name())),
			Title: s.Title,
			Score: s,
		})
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].ID < catalog[j].ID })
}

// All returns every built-in song, sorted by ID
func All() []Song {
	out := make([]Song, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns all song IDs
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, s := range catalog {
		ids[i] = s.ID
	}
	return ids
}

// ByID returns a song by its ID
func ByID(id string) (*Song, error) {
	for i := range catalog {
		if catalog[i].ID == id {
			s := catalog[i]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
}
