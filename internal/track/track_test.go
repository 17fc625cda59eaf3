package track

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

var errDecode = errors.New("decode failed")

func TestValidFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"a/b/song.flac", true},
		{"song.ogg", true},
		{"song.wav", true},
		{"song.m4a", true},
		{"song.aac", true},
		{"song.wma", true},
		{"song.opus", false},
		{"song.txt", false},
		{"song", false},
		{"cover.jpg", false},
	}
	for _, tt := range tests {
		if got := ValidFormat(tt.path); got != tt.want {
			t.Errorf("ValidFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFromPathMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope", "07 - Ghost.mp3")
	tr := FromPath(p)

	if tr.Path != p {
		t.Errorf("Path = %q, want %q", tr.Path, p)
	}
	if tr.Title != "07 - Ghost" {
		t.Errorf("Title = %q, want file name without extension", tr.Title)
	}
	if tr.Artist != "" || tr.Album != "" || tr.Number != 0 {
		t.Errorf("expected zero metadata for unreadable file, got %+v", tr)
	}
}

func TestWithDuration(t *testing.T) {
	tr := Track{Path: "x.mp3", Title: "x"}

	probed := tr.WithDuration(func(string) (time.Duration, error) {
		return 42 * time.Second, nil
	})
	if probed.Duration != 42*time.Second {
		t.Errorf("Duration = %v, want 42s", probed.Duration)
	}
	if tr.Duration != 0 {
		t.Error("WithDuration mutated the receiver")
	}
}

func TestWithDurationProbeFailure(t *testing.T) {
	tr := Track{Path: "x.mp3", Duration: 9 * time.Second}
	got := tr.WithDuration(func(string) (time.Duration, error) {
		return 0, errDecode
	})
	if got.Duration != 9*time.Second {
		t.Errorf("Duration = %v, want original 9s kept on probe failure", got.Duration)
	}
}

func TestEqual(t *testing.T) {
	a := Track{Path: "p", Title: "T", Artist: "A", Album: "L", Number: 3, Duration: time.Minute}
	b := a
	if !a.Equal(b) {
		t.Error("identical tracks not Equal")
	}
	b.Number = 4
	if a.Equal(b) {
		t.Error("tracks differing in Number reported Equal")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		tr   Track
		want string
	}{
		{Track{Title: "Song", Artist: "Band"}, "Band - Song"},
		{Track{Title: "Song"}, "Song"},
	}
	for _, tt := range tests {
		if got := tt.tr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
