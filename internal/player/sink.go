package player

import "time"

// Sink is the audio backend a Player drives. It owns decoding and
// output; the Player never reads the backend's playback position and
// never blocks on it. Implementations queue appended tracks and move
// to the next queued item on their own when one finishes.
type Sink interface {
	// Append decodes the file at path and queues it for playback.
	// Decode failures are reported here, not at play time.
	Append(path string) error

	// Play starts or resumes output.
	Play()

	// Pause suspends output, keeping the queue intact.
	Pause()

	// Stop halts output and clears the queue.
	Stop()

	// Pop discards the most recently queued item that has not started
	// playing. It is a no-op when only the current item remains.
	Pop()

	// TrySeek moves the current item to an absolute position.
	TrySeek(pos time.Duration) error

	// SetVolume applies an output volume as a percentage, 0 to 120.
	// Zero silences the output.
	SetVolume(percent int)

	// Len reports how many queued items have not finished, counting
	// the one currently playing.
	Len() int

	// Empty reports whether the queue has fully drained.
	Empty() bool

	// Close releases the backend. The sink is unusable afterwards.
	Close() error
}
