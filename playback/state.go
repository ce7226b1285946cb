package playback

// State is the single playback state for the active lesson. Exactly one
// value holds at a time; there are no independent boolean flags to drift.
type State int

const (
	// StateIdle is entered whenever the selected lesson changes.
	StateIdle State = iota
	// StateLoading persists until the media handle reports ready.
	StateLoading
	// StateReady means loaded and positioned, awaiting play.
	StateReady
	StatePlaying
	StatePaused
	// StateSegmentEnded is the silent end state (replay of a completed
	// lesson, or awaiting prompt action).
	StateSegmentEnded
	// StateCompletionPending shows the continue / course-complete prompt
	// after a first-time completion.
	StateCompletionPending
	// StateAdvancing is the transient hop into the next lesson.
	StateAdvancing
	// StateErrored is terminal until a manual Reload.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateSegmentEnded:
		return "segment_ended"
	case StateCompletionPending:
		return "completion_pending"
	case StateAdvancing:
		return "advancing"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Prompt is the modal requested from the host UI, if any.
type Prompt int

const (
	PromptNone Prompt = iota
	// PromptContinue offers the single "continue" action advancing to the
	// next lesson.
	PromptContinue
	// PromptCourseComplete requires the manual "notify instructor" action
	// before completion is persisted.
	PromptCourseComplete
)
