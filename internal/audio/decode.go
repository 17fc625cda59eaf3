// Package audio decodes local audio files into beep streamers.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/tessro/strum/internal/errors"
)

// Stream couples a decoded streamer with its format and the underlying
// file handle, so Close releases both.
type Stream struct {
	beep.StreamSeekCloser
	Format beep.Format

	file *os.File
}

// Close closes the streamer and the backing file.
func (s *Stream) Close() error {
	err := s.StreamSeekCloser.Close()
	if ferr := s.file.Close(); err == nil {
		err = ferr
	}
	return err
}

// Decode opens and decodes an audio file. The caller owns the returned
// stream and must Close it.
func Decode(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidPath, path)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mp3":
		streamer, format, err = mp3.Decode(f)
	case "flac":
		streamer, format, err = flac.Decode(f)
	case "wav":
		streamer, format, err = wav.Decode(f)
	case "ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, errors.WithSuggestion(
			fmt.Errorf("%w: %s", errors.ErrDecodeFailure, filepath.Base(path)),
			"strum decodes mp3, flac, wav and ogg natively; other formats are skipped")
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrDecodeFailure, filepath.Base(path), err)
	}

	return &Stream{StreamSeekCloser: streamer, Format: format, file: f}, nil
}

// Duration decodes the file headers and reports its playing time.
// Expensive relative to tag reading, so callers probe once and keep
// the result.
func Duration(path string) (time.Duration, error) {
	s, err := Decode(path)
	if err != nil {
		return 0, err
	}
	defer s.Close()
	return s.Format.SampleRate.D(s.Len()), nil
}
