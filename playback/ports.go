// Package playback owns the segment-locked lesson player: lesson selection,
// the position polling loop, end-of-segment detection, completion gating and
// the remote progress sync. The actual media decode lives behind MediaHandle
// so the engine runs the same against the YouTube embed bridge or a fake.
package playback

import "context"

// MediaState is the coarse state reported by the external media handle.
type MediaState int

const (
	MediaPlaying MediaState = iota
	MediaPaused
	MediaEnded
)

// MediaHandle abstracts the external embedded player. Load is asynchronous:
// the host must call Engine.MediaReady once the handle reports ready, and
// forward state changes and errors to MediaStateChanged/MediaErrored.
type MediaHandle interface {
	Load(mediaRef string, start, end float64) error
	Play()
	Pause()
	SeekTo(absSeconds float64)
	Mute()
	Unmute()
	// Position reports the current absolute position in seconds.
	Position() float64
	Destroy()
}

// ProgressRecord mirrors one remote progress row for the active student.
type ProgressRecord struct {
	LessonID     int
	LastPosition float64
	IsCompleted  bool
}

// ProgressStore reads and writes the student's remote progress rows.
// Fetch failure degrades to "no saved progress"; Upsert is fire-and-forget
// from the engine's point of view (errors are logged, never fatal).
type ProgressStore interface {
	Fetch(ctx context.Context, lessonIDs []int) ([]ProgressRecord, error)
	Upsert(ctx context.Context, lessonID int, position float64, completed bool) error
}

// Notifier delivers the one-time "notify instructor" action on course
// completion (messaging deep link, email — the engine does not care).
type Notifier interface {
	NotifyCourseComplete(ctx context.Context) error
}
