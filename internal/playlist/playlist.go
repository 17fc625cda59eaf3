// Package playlist builds ordered track lists from album directories
// and owns index-selection logic, including anti-repeat random choice.
package playlist

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tessro/strum/internal/errors"
	"github.com/tessro/strum/internal/track"
)

// Playlist is an ordered, non-empty sequence of tracks from one source
// directory, plus the current index. Tracks are sorted by (album,
// track number, title) at construction; sequential navigation relies
// on that ordering.
type Playlist struct {
	Dir    string
	Tracks []track.Track
	Index  int

	numbers map[int]int // track number -> index
}

// New builds a playlist over already-collected tracks. The track list
// must be non-empty; it is sorted in place.
func New(dir string, tracks []track.Track) (*Playlist, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w in %s", errors.ErrEmptyPlaylist, dir)
	}

	slices.SortFunc(tracks, func(a, b track.Track) int {
		if c := strings.Compare(a.Album, b.Album); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Number, b.Number); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})

	p := &Playlist{
		Dir:     dir,
		Tracks:  tracks,
		numbers: make(map[int]int, len(tracks)),
	}
	for i, t := range tracks {
		p.numbers[t.Number] = i
	}
	return p, nil
}

// FromDir builds a playlist from a directory. Directories holding no
// audio files but containing subdirectories are followed into their
// first subdirectory, one level at a time, so artist/album nesting
// resolves to the first album.
func FromDir(dir string, probe track.Prober) (*Playlist, error) {
	return fromDir(dir, probe, true)
}

// FromAlbumDir builds a playlist from a directory expected to hold
// audio files directly. Subdirectories in place of audio files are an
// error rather than a descent.
func FromAlbumDir(dir string, probe track.Prober) (*Playlist, error) {
	return fromDir(dir, probe, false)
}

func fromDir(dir string, probe track.Prober, descend bool) (*Playlist, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidPath, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidPath, dir)
	}

	var (
		tracks  []track.Track
		subdirs []string
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, name))
			continue
		}
		if track.ValidFormat(name) {
			tracks = append(tracks, track.FromPath(filepath.Join(dir, name)))
		}
	}

	if len(tracks) == 0 {
		if len(subdirs) == 0 {
			return nil, fmt.Errorf("%w in %s", errors.ErrEmptyPlaylist, dir)
		}
		if !descend {
			return nil, fmt.Errorf("%w: %s contains subdirectories", errors.ErrInvalidPath, dir)
		}
		slices.Sort(subdirs)
		return fromDir(subdirs[0], probe, true)
	}

	p, err := New(dir, tracks)
	if err != nil {
		return nil, err
	}

	// The first track must decode or the whole build fails; the rest
	// get best-effort durations.
	if probe != nil {
		d, perr := probe(p.Tracks[0].Path)
		if perr != nil {
			return nil, fmt.Errorf("%w: %s", errors.ErrDecodeFailure, p.Tracks[0].Path)
		}
		p.Tracks[0].Duration = d
		for i := 1; i < len(p.Tracks); i++ {
			p.Tracks[i] = p.Tracks[i].WithDuration(probe)
		}
	}

	return p, nil
}

// Current returns the track at the current index.
func (p *Playlist) Current() track.Track {
	return p.Tracks[p.Index]
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.Tracks)
}

// IsLastTrack reports whether the current index is the final track.
func (p *Playlist) IsLastTrack() bool {
	return p.Index == len(p.Tracks)-1
}

// NextTrack returns the track after the current index, if any.
func (p *Playlist) NextTrack() (track.Track, bool) {
	if p.IsLastTrack() {
		return track.Track{}, false
	}
	return p.Tracks[p.Index+1], true
}

// IndexOfNumber resolves a track number tag to a playlist index.
func (p *Playlist) IndexOfNumber(n int) (int, bool) {
	i, ok := p.numbers[n]
	return i, ok
}

// RandomIndex draws a random track index without moving the playlist.
// The current index is excluded from the draw so consecutive calls do
// not repeat, with one inherited quirk kept intact: index 0 always
// stays in the pool, so it may repeat when it is already current.
// Playlists shorter than two tracks always yield 0.
func (p *Playlist) RandomIndex(rng *rand.Rand) int {
	if p.Len() < 2 {
		return 0
	}
	candidates := make([]int, 0, p.Len())
	for i := range p.Tracks {
		if i == 0 || i != p.Index {
			candidates = append(candidates, i)
		}
	}
	return candidates[rng.IntN(len(candidates))]
}

// SetRandomIndex moves the index to a random track, under the same
// draw rules as RandomIndex.
func (p *Playlist) SetRandomIndex(rng *rand.Rand) {
	p.Index = p.RandomIndex(rng)
}

// Randomized picks a random playable candidate: a uniformly random
// path from paths, built as an album playlist, with a uniformly random
// index inside it. Unreadable or empty candidates are tolerated for up
// to 10 attempts; after that it gives up and reports no candidate.
func Randomized(rng *rand.Rand, paths []string, probe track.Prober) (string, int, bool) {
	if len(paths) == 0 {
		return "", 0, false
	}
	for attempt := 0; attempt < 10; attempt++ {
		path := paths[rng.IntN(len(paths))]
		p, err := FromAlbumDir(path, probe)
		if err != nil {
			continue
		}
		return path, rng.IntN(p.Len()), true
	}
	return "", 0, false
}
