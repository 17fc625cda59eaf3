//go:build (linux && cgo) || windows || darwin

package player

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/tessro/strum/internal/audio"
	"github.com/tessro/strum/internal/errors"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

// The speaker is process-global and initialized once at a fixed rate;
// every decoded stream is resampled to it. Rebuilt sinks reuse it.
const mixRate = beep.SampleRate(44100)

var speakerInit struct {
	once sync.Once
	err  error
}

func initSpeaker() error {
	speakerInit.once.Do(func() {
		speakerInit.err = speaker.Init(mixRate, mixRate.N(time.Second/10))
	})
	return speakerInit.err
}

// entry is one queued track: the seekable decoded stream plus its
// playback form (resampled when the file's rate differs from the mixer).
type entry struct {
	stream   *audio.Stream
	streamer beep.Streamer
}

// beepSink implements Sink over the beep speaker. Appended tracks form
// a FIFO; the speaker drains them back to back, which is what makes
// gapless pre-queuing work. All queue state is guarded by the speaker
// lock because the mixer goroutine reads it concurrently.
type beepSink struct {
	queue  *queueStreamer
	ctrl   *beep.Ctrl
	volume *effects.Volume

	// started tracks whether the chain has been handed to the mixer.
	// Only the controller goroutine touches it.
	started bool
}

// NewSink returns the beep-backed audio sink.
func NewSink() Sink {
	q := &queueStreamer{}
	ctrl := &beep.Ctrl{Streamer: q}
	vol := &effects.Volume{Streamer: ctrl, Base: 2}
	return &beepSink{queue: q, ctrl: ctrl, volume: vol}
}

func (s *beepSink) Append(path string) error {
	if err := initSpeaker(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrAudioUnavailable, err)
	}

	stream, err := audio.Decode(path)
	if err != nil {
		return err
	}

	var streamer beep.Streamer = stream
	if stream.Format.SampleRate != mixRate {
		streamer = beep.Resample(4, stream.Format.SampleRate, mixRate, stream)
	}

	speaker.Lock()
	s.queue.add(entry{stream: stream, streamer: streamer})
	speaker.Unlock()

	// The chain is handed to the mixer once and lives until Close.
	if !s.started {
		s.started = true
		speaker.Play(s.volume)
	}
	return nil
}

func (s *beepSink) Play() {
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
}

func (s *beepSink) Pause() {
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
}

func (s *beepSink) Stop() {
	speaker.Lock()
	s.queue.clear()
	s.ctrl.Paused = false
	speaker.Unlock()
}

func (s *beepSink) Pop() {
	speaker.Lock()
	s.queue.popPending()
	speaker.Unlock()
}

func (s *beepSink) TrySeek(pos time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()

	if len(s.queue.entries) == 0 {
		return nil
	}
	cur := s.queue.entries[0].stream

	n := cur.Format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if last := cur.Len() - 1; n > last {
		if last < 0 {
			return nil
		}
		n = last
	}
	return cur.Seek(n)
}

func (s *beepSink) SetVolume(percent int) {
	speaker.Lock()
	defer speaker.Unlock()

	if percent <= 0 {
		s.volume.Silent = true
		return
	}
	s.volume.Silent = false
	s.volume.Volume = math.Log2(float64(percent) / 100)
}

func (s *beepSink) Len() int {
	speaker.Lock()
	defer speaker.Unlock()
	return len(s.queue.entries)
}

func (s *beepSink) Empty() bool {
	return s.Len() == 0
}

func (s *beepSink) Close() error {
	speaker.Lock()
	s.queue.clear()
	s.queue.closed = true
	speaker.Unlock()
	return nil
}

// queueStreamer drains appended entries in order, emitting silence
// while empty so the mixer keeps the chain alive between tracks. After
// closing it reports finished and the mixer drops it. Only ever
// touched under the speaker lock.
type queueStreamer struct {
	entries []entry
	closed  bool
}

func (q *queueStreamer) add(e entry) {
	q.entries = append(q.entries, e)
}

func (q *queueStreamer) clear() {
	for _, e := range q.entries {
		e.stream.Close()
	}
	q.entries = nil
}

// popPending drops the most recently queued entry, never the playing one.
func (q *queueStreamer) popPending() {
	if len(q.entries) < 2 {
		return
	}
	last := len(q.entries) - 1
	q.entries[last].stream.Close()
	q.entries = q.entries[:last]
}

func (q *queueStreamer) Stream(samples [][2]float64) (int, bool) {
	if q.closed {
		return 0, false
	}

	filled := 0
	for filled < len(samples) {
		if len(q.entries) == 0 {
			for i := range samples[filled:] {
				samples[filled+i] = [2]float64{}
			}
			return len(samples), true
		}
		n, ok := q.entries[0].streamer.Stream(samples[filled:])
		if !ok {
			q.entries[0].stream.Close()
			q.entries = q.entries[1:]
		}
		filled += n
	}
	return len(samples), true
}

func (q *queueStreamer) Err() error {
	return nil
}
