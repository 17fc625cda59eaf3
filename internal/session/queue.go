// Package session holds the state that outlives any single playback
// controller: the navigation history queue, the album candidate list,
// and the persisted playback options. Controllers are rebuilt, never
// mutated, when the user moves to a different directory; the session
// context is what makes "previous" and "random" work across those
// rebuilds.
package session

import "slices"

// Entry identifies one selection in the navigation history: the album
// directory a playlist was built from and a track index within it.
type Entry struct {
	Dir   string `json:"dir"`
	Index int    `json:"index"`
}

// Queue is the bounded navigation history. It holds a single entry when
// only the current selection is known and grows to at most three as
// previous and pending-random contexts accumulate, in the form
// [previous, current, pending]. A queue is never empty.
type Queue struct {
	entries []Entry
}

// NewQueue builds a queue seeded with one entry.
func NewQueue(first Entry) *Queue {
	return &Queue{entries: []Entry{first}}
}

// RestoreQueue rebuilds a queue from persisted entries. It returns nil
// for an empty history, which callers treat as "bootstrap a fresh
// queue"; oversized histories are truncated to the bound.
func RestoreQueue(entries []Entry) *Queue {
	if len(entries) == 0 {
		return nil
	}
	if len(entries) > 3 {
		entries = entries[:3]
	}
	q := &Queue{entries: make([]Entry, len(entries))}
	copy(q.entries, entries)
	return q
}

// Len returns the number of stored entries, always in [1, 3].
func (q *Queue) Len() int { return len(q.entries) }

// Front returns the previous-context entry.
func (q *Queue) Front() Entry { return q.entries[0] }

// Back returns the pending-random entry, or the only entry when no
// pending context exists yet.
func (q *Queue) Back() Entry { return q.entries[len(q.entries)-1] }

// Snapshot copies the entries for persistence.
func (q *Queue) Snapshot() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Fuzzy records a selection the user committed explicitly. A
// single-entry queue gains both a previous and a current slot pointing
// at the new selection; otherwise the stale current entry is replaced
// while the oldest previous context is dropped.
func (q *Queue) Fuzzy(e Entry) {
	if len(q.entries) == 1 {
		q.entries = slices.Insert(q.entries, 0, e, e)
		return
	}
	q.entries = slices.Insert(q.entries[1:], 1, e)
}

// Previous returns the previous-context entry as the rebuild target and
// swaps the front two slots, so a second invocation toggles back. With
// no previous context it reports false and leaves the queue untouched.
func (q *Queue) Previous() (Entry, bool) {
	if len(q.entries) < 2 {
		return Entry{}, false
	}
	target := q.entries[0]
	q.entries[0], q.entries[1] = q.entries[1], q.entries[0]
	return target, true
}

// Random consumes the pending entry as the rebuild target: the oldest
// context is dropped (or, on a single-entry queue, the front is
// duplicated to bootstrap a previous slot) and the pre-computed next
// candidate is stored at the back. The caller supplies next after a
// successful rebuild of the returned target.
func (q *Queue) Random(next Entry) Entry {
	target := q.entries[len(q.entries)-1]
	if len(q.entries) == 1 {
		q.entries = append(q.entries, q.entries[0])
	} else {
		q.entries = q.entries[1:]
	}
	q.entries = append(q.entries, next)
	return target
}

// Peek returns the rebuild target Random would consume, without
// mutating the queue.
func (q *Queue) Peek() Entry { return q.Back() }

// SyncCurrent stores the given index on the current slot, so a later
// "previous" lands on the track that was playing rather than the one
// the playlist started on. No-op before a current slot exists.
func (q *Queue) SyncCurrent(index int) {
	if len(q.entries) < 2 {
		return
	}
	q.entries[1].Index = index
}
