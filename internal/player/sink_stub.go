//go:build !((linux && cgo) || windows || darwin)

package player

import (
	"time"

	"github.com/tessro/strum/internal/errors"
)

// AudioAvailable indicates whether audio playback is supported in this build.
// Output on Linux requires cgo for the native sound libraries.
const AudioAvailable = false

// stubSink satisfies Sink for builds without an audio backend. Every
// append fails, so the controller skips through and stops; the rest of
// the program still works as a library browser.
type stubSink struct{}

// NewSink returns the no-op sink for builds without audio support.
func NewSink() Sink {
	return stubSink{}
}

func (stubSink) Append(string) error { return errors.ErrAudioUnavailable }

func (stubSink) Play() {}

func (stubSink) Pause() {}

func (stubSink) Stop() {}

func (stubSink) Pop() {}

func (stubSink) TrySeek(time.Duration) error { return errors.ErrAudioUnavailable }

func (stubSink) SetVolume(int) {}

func (stubSink) Len() int { return 0 }

func (stubSink) Empty() bool { return true }

func (stubSink) Close() error { return nil }
