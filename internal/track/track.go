// Package track reads audio file metadata into immutable Track records.
package track

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
)

// Formats lists the file extensions strum treats as audio, lowercase,
// without the dot.
var Formats = []string{"aac", "flac", "m4a", "mp3", "ogg", "wav", "wma"}

// Track represents one playable audio file. Fields are fixed at
// creation; a zero Duration means unknown and a zero Number means the
// file carried no track number tag.
type Track struct {
	Path     string        `json:"path"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album"`
	Year     int           `json:"year"`
	Number   int           `json:"number"`
	Duration time.Duration `json:"duration"`
}

// ValidFormat reports whether path has a recognized audio extension.
func ValidFormat(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats {
		if ext == f {
			return true
		}
	}
	return false
}

// FromPath builds a Track from the file's tags. Unreadable or untagged
// files still produce a usable Track with the file name as title.
func FromPath(path string) Track {
	t := Track{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		return t
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return t
	}

	if v := m.Title(); v != "" {
		t.Title = v
	}
	t.Artist = m.Artist()
	t.Album = m.Album()
	t.Year = m.Year()
	t.Number, _ = m.Track()
	return t
}

// Prober reports the playing duration of an audio file. Decoding the
// headers is comparatively expensive, so probing is separate from tag
// reading and done once at playlist build.
type Prober func(path string) (time.Duration, error)

// WithDuration returns a copy of the track with its duration probed.
// Probe failures leave the duration unknown.
func (t Track) WithDuration(probe Prober) Track {
	if probe == nil {
		return t
	}
	d, err := probe(t.Path)
	if err != nil {
		return t
	}
	t.Duration = d
	return t
}

// Equal reports whether two tracks are the same record, field by field.
func (t Track) Equal(other Track) bool {
	return t == other
}

// String renders "Artist - Title", or just the title when the artist
// tag is missing.
func (t Track) String() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}
