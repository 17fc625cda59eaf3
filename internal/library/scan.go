// Package library discovers playable album directories under the
// configured roots and serves them to the finder and the random
// navigation modes.
package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tessro/strum/internal/config"
	"github.com/tessro/strum/internal/errors"
	"github.com/tessro/strum/internal/track"
)

// Candidate is one directory holding at least one playable audio file.
type Candidate struct {
	// Path is the absolute directory path.
	Path string `json:"path"`
	// Name is the display name: the path relative to the root it was
	// found under, or the directory base name for a root itself.
	Name string `json:"name"`
	// Root is the configured root the directory was found under.
	Root string `json:"root"`
	// Depth is the directory depth relative to its root.
	Depth int `json:"depth"`
	// Files counts the audio files directly inside the directory.
	Files int `json:"files"`
	// Bytes is the combined size of those files.
	Bytes int64 `json:"bytes"`
}

// Result holds the outcome of a library scan.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	Files      int         `json:"files"`
	Bytes      int64       `json:"bytes"`
}

// Dirs returns the candidate directory paths in scan order.
func (r Result) Dirs() []string {
	dirs := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		dirs[i] = c.Path
	}
	return dirs
}

// Scan walks the configured roots and collects every directory that
// directly contains at least one recognized audio file. Hidden
// directories and names listed in the ignore setting are skipped.
// Unreadable entries do not abort the scan; they are recorded on the
// returned PartialResult.
func Scan(cfg config.LibraryConfig) (*errors.PartialResult[Result], error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("%w: no library paths configured", errors.ErrInvalidConfig)
	}

	ignored := make(map[string]bool, len(cfg.Ignore))
	for _, name := range cfg.Ignore {
		ignored[name] = true
	}

	partial := &errors.PartialResult[Result]{}
	found := make(map[string]*Candidate)
	scanned := 0

	for _, raw := range cfg.Paths {
		root, err := expandRoot(raw)
		if err != nil {
			partial.AddError(fmt.Errorf("resolving %s: %w", raw, err))
			continue
		}
		info, err := os.Stat(root)
		if err != nil {
			partial.AddError(fmt.Errorf("library root %s: %w", root, err))
			continue
		}
		if !info.IsDir() {
			partial.AddError(fmt.Errorf("library root %s: not a directory", root))
			continue
		}
		scanned++

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				partial.AddError(err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && (hidden(d.Name()) || ignored[d.Name()]) {
					return filepath.SkipDir
				}
				return nil
			}
			if !track.ValidFormat(path) {
				return nil
			}

			dir := filepath.Dir(path)
			cand, ok := found[dir]
			if !ok {
				cand = newCandidate(dir, root)
				found[dir] = cand
			}
			fi, err := d.Info()
			if err != nil {
				partial.AddError(err)
				return nil
			}
			cand.Files++
			cand.Bytes += fi.Size()
			return nil
		})
		if walkErr != nil {
			partial.AddError(fmt.Errorf("walking %s: %w", root, walkErr))
		}
	}

	if scanned == 0 {
		return nil, fmt.Errorf("%w: no readable library roots", errors.ErrNoCandidateFound)
	}

	res := Result{Candidates: make([]Candidate, 0, len(found))}
	for _, cand := range found {
		res.Candidates = append(res.Candidates, *cand)
		res.Files += cand.Files
		res.Bytes += cand.Bytes
	}
	sort.Slice(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].Path < res.Candidates[j].Path
	})

	partial.Data = res
	return partial, nil
}

func newCandidate(dir, root string) *Candidate {
	name, depth := displayName(dir, root)
	return &Candidate{
		Path:  dir,
		Name:  name,
		Root:  root,
		Depth: depth,
	}
}

// displayName renders the path relative to its root. The root itself
// shows as its base name at depth zero.
func displayName(dir, root string) (string, int) {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return filepath.Base(dir), 0
	}
	rel = filepath.ToSlash(rel)
	return rel, strings.Count(rel, "/") + 1
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// expandRoot resolves a leading ~ and returns an absolute path.
func expandRoot(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
