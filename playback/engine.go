package playback

import (
	"anwaar/manifest"
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"
)

const (
	// PollInterval matches the original half-second sampling loop.
	PollInterval = 500 * time.Millisecond
	// SyncInterval is the coarse remote position sync while playing.
	SyncInterval = 15 * time.Second
	// ResumeEpsilon: saved positions at or below this are treated as
	// "start from the top".
	ResumeEpsilon = 5.0
	// EndTolerance for the natural segment end; the hard stop is exact.
	EndTolerance = 0.5

	// Loading watchdog: polls allowed before a reload attempt, and how many
	// reload attempts before giving up.
	maxInitPolls   = 20 // 10s at PollInterval
	maxInitRetries = 3
)

var (
	ErrLessonLocked   = errors.New("playback: lesson is locked")
	ErrUnknownLesson  = errors.New("playback: unknown lesson index")
	ErrMediaInit      = errors.New("playback: media handle failed to initialize")
	ErrNoPromptAction = errors.New("playback: no prompt action available")
)

// Engine drives one course's lesson playback. All methods are safe for
// concurrent use; Run owns the polling ticker, or a host may drive Poll
// itself. The zero value is not usable — construct with New.
type Engine struct {
	mu       sync.Mutex
	course   manifest.CourseManifest
	media    MediaHandle
	store    ProgressStore
	notifier Notifier

	state      State
	idx        int
	elapsed    float64
	activeAyah string
	muted      bool
	prompt     Prompt
	lastErr    error

	completed map[int]bool    // lesson id -> completed this session or per store
	unlocked  map[int]bool    // lessons unlocked by completing the previous one
	resume    map[int]float64 // lesson id -> saved position (relative seconds)

	notified    bool // instructor notify fired this session
	lastSync    time.Time
	loadPolls   int
	loadRetries int
}

// New builds an engine for one course. The media handle must be unloaded.
func New(course manifest.CourseManifest, media MediaHandle, store ProgressStore, notifier Notifier) (*Engine, error) {
	if !course.Available() {
		return nil, errors.New("playback: course has no published lessons")
	}
	return &Engine{
		course:    course,
		media:     media,
		store:     store,
		notifier:  notifier,
		state:     StateIdle,
		idx:       -1,
		completed: make(map[int]bool),
		unlocked:  make(map[int]bool),
		resume:    make(map[int]float64),
	}, nil
}

// Start fetches saved progress and selects the first lesson. A store failure
// degrades to a fresh session.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.store.Fetch(ctx, e.course.LessonIDs())
	if err != nil {
		log.Printf("[PLAYBACK] Progress fetch failed, starting fresh: %v", err)
	}
	for _, rec := range records {
		if rec.IsCompleted {
			e.completed[rec.LessonID] = true
		}
		if rec.LastPosition > 0 {
			e.resume[rec.LessonID] = rec.LastPosition
		}
	}
	return e.selectLesson(ctx, 0)
}

// Run owns the polling loop until ctx is cancelled, then tears down.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.Teardown()
			return
		case now := <-ticker.C:
			e.Poll(ctx, now)
		}
	}
}

// SelectLesson switches the active lesson. Reselecting the active lesson
// while it is ready or paused toggles play instead of reloading.
func (e *Engine) SelectLesson(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index == e.idx {
		switch e.state {
		case StateReady, StatePlaying, StatePaused:
			e.togglePlay()
			return nil
		}
	}
	return e.selectLesson(ctx, index)
}

// selectLesson tears down the current lesson and enters Loading for the new
// one. Callers hold the mutex.
func (e *Engine) selectLesson(_ context.Context, index int) error {
	if index < 0 || index >= len(e.course.Lessons) {
		return ErrUnknownLesson
	}
	if e.lessonLocked(index) {
		return ErrLessonLocked
	}

	// Synchronous teardown of the previous handle; stale polls for the old
	// lesson are a defect.
	if e.idx >= 0 {
		e.media.Destroy()
	}

	lesson := e.course.Lessons[index]
	e.idx = index
	e.state = StateIdle
	e.elapsed = 0
	e.activeAyah = ""
	e.prompt = PromptNone
	e.lastErr = nil
	e.loadPolls = 0
	e.loadRetries = 0

	if err := e.media.Load(lesson.MediaRef, lesson.Start, lesson.End); err != nil {
		e.state = StateErrored
		e.lastErr = err
		return err
	}
	e.state = StateLoading
	return nil
}

// MediaReady must be called by the host when the handle reports ready.
// Applies the resume rules: a completed lesson always restarts at the top;
// otherwise a saved position beyond the epsilon is resumed.
func (e *Engine) MediaReady() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateLoading {
		return
	}
	lesson := e.course.Lessons[e.idx]

	saved := e.resume[lesson.ID]
	if !e.completed[lesson.ID] && saved > ResumeEpsilon {
		e.media.SeekTo(lesson.Start + saved)
		e.elapsed = saved
	} else {
		e.elapsed = 0
	}
	e.state = StateReady
	e.loadPolls = 0
	e.loadRetries = 0
}

// MediaStateChanged forwards play/pause/ended signals from the handle.
// The native ended signal is a back-up for the polling loop.
func (e *Engine) MediaStateChanged(ctx context.Context, state MediaState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch state {
	case MediaPlaying:
		if e.state == StateReady || e.state == StatePaused {
			e.state = StatePlaying
			e.lastSync = time.Now()
		}
	case MediaPaused:
		if e.state == StatePlaying {
			e.state = StatePaused
		}
	case MediaEnded:
		if e.state == StatePlaying || e.state == StatePaused {
			e.segmentEnd(ctx)
		}
	}
}

// MediaErrored moves straight to the terminal error state.
func (e *Engine) MediaErrored(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateErrored
	e.lastErr = err
}

// Poll performs one sample of the polling loop. Run calls it on a real
// ticker; tests drive it directly with synthetic times.
func (e *Engine) Poll(ctx context.Context, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateLoading:
		e.pollLoading(ctx)
	case StatePlaying:
		e.pollPlaying(ctx, now)
	}
}

// pollLoading is the bounded init watchdog: reload a few times, then give up.
func (e *Engine) pollLoading(_ context.Context) {
	e.loadPolls++
	if e.loadPolls <= maxInitPolls {
		return
	}

	e.loadRetries++
	e.loadPolls = 0
	if e.loadRetries >= maxInitRetries {
		log.Printf("[PLAYBACK] Media init gave up after %d attempts", e.loadRetries)
		e.state = StateErrored
		e.lastErr = ErrMediaInit
		return
	}

	lesson := e.course.Lessons[e.idx]
	log.Printf("[PLAYBACK] Media init retry %d for lesson %d", e.loadRetries, lesson.ID)
	if err := e.media.Load(lesson.MediaRef, lesson.Start, lesson.End); err != nil {
		e.state = StateErrored
		e.lastErr = err
	}
}

func (e *Engine) pollPlaying(ctx context.Context, now time.Time) {
	lesson := e.course.Lessons[e.idx]

	abs := e.media.Position()
	rel := abs - lesson.Start
	if rel < 0 {
		rel = 0
	}
	e.elapsed = rel

	if ayah, ok := e.course.ActiveAyah(abs); ok {
		e.activeAyah = ayah.Text
	} else {
		e.activeAyah = ""
	}

	// Coarse sync so abrupt navigation away loses at most SyncInterval.
	if now.Sub(e.lastSync) >= SyncInterval {
		e.lastSync = now
		e.upsert(ctx, lesson.ID, math.Floor(rel), false)
	}

	// The hard stop is authoritative and exact; the natural end carries a
	// sampling tolerance.
	if lesson.HardStop > 0 {
		if abs >= lesson.HardStop {
			e.segmentEnd(ctx)
		}
	} else if abs >= lesson.End-EndTolerance {
		e.segmentEnd(ctx)
	}
}

// segmentEnd stops playback and applies the completion gating. Callers hold
// the mutex.
func (e *Engine) segmentEnd(ctx context.Context) {
	lesson := e.course.Lessons[e.idx]
	e.media.Pause()
	e.elapsed = lesson.Duration()
	e.activeAyah = ""

	if e.completed[lesson.ID] {
		// Silent replay: no prompt, no unlock, no remote write.
		e.state = StateSegmentEnded
		return
	}
	e.completed[lesson.ID] = true

	if e.idx == len(e.course.Lessons)-1 {
		// Final lesson: completion is only persisted once the instructor
		// notify action fires.
		e.prompt = PromptCourseComplete
		e.state = StateCompletionPending
		e.upsert(ctx, lesson.ID, math.Floor(lesson.Duration()), false)
		return
	}

	e.unlocked[e.idx+1] = true
	e.prompt = PromptContinue
	e.state = StateCompletionPending
	e.upsert(ctx, lesson.ID, math.Floor(lesson.Duration()), true)
}

// Continue is the single action of the continue prompt: advance.
func (e *Engine) Continue(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.prompt != PromptContinue {
		return ErrNoPromptAction
	}
	e.prompt = PromptNone
	e.state = StateAdvancing
	return e.selectLesson(ctx, e.idx+1)
}

// NotifyInstructor fires the course-complete notification and persists the
// final completion. At most once per session: reopening the prompt and
// pressing again is a no-op.
func (e *Engine) NotifyInstructor(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.prompt != PromptCourseComplete {
		return ErrNoPromptAction
	}
	if e.notified {
		return nil
	}
	if err := e.notifier.NotifyCourseComplete(ctx); err != nil {
		return err
	}
	e.notified = true

	lesson := e.course.Lessons[e.idx]
	e.upsert(ctx, lesson.ID, math.Floor(lesson.Duration()), true)
	return nil
}

// DismissPrompt hides the course-complete modal without advancing.
func (e *Engine) DismissPrompt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.prompt == PromptCourseComplete {
		e.prompt = PromptNone
		e.state = StateSegmentEnded
	}
}

// ReopenPrompt brings the course-complete modal back after a dismiss.
func (e *Engine) ReopenPrompt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	lesson := e.course.Lessons[e.idx]
	if e.state == StateSegmentEnded && e.idx == len(e.course.Lessons)-1 && e.completed[lesson.ID] {
		e.prompt = PromptCourseComplete
		e.state = StateCompletionPending
	}
}

// TogglePlay flips between playing and paused.
func (e *Engine) TogglePlay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.togglePlay()
}

func (e *Engine) togglePlay() {
	switch e.state {
	case StatePlaying:
		e.media.Pause()
		e.state = StatePaused
	case StateReady, StatePaused:
		e.media.Play()
		e.state = StatePlaying
		e.lastSync = time.Now()
	}
}

// Seek clamps the requested relative position, converts it to absolute and
// hands it to the media handle. It never triggers end-of-segment itself; the
// polling loop does.
func (e *Engine) Seek(relSeconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateReady, StatePlaying, StatePaused:
	default:
		return
	}

	lesson := e.course.Lessons[e.idx]
	if relSeconds < 0 {
		relSeconds = 0
	}
	if limit := lesson.Duration(); relSeconds > limit {
		relSeconds = limit
	}
	e.media.SeekTo(lesson.Start + relSeconds)
	e.elapsed = relSeconds
}

// ToggleMute flips the handle's mute state.
func (e *Engine) ToggleMute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.muted {
		e.media.Unmute()
	} else {
		e.media.Mute()
	}
	e.muted = !e.muted
}

// Reload is the manual recovery affordance from the error state.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateErrored {
		return nil
	}
	index := e.idx
	if index < 0 {
		index = 0
	}
	e.idx = -1 // skip Destroy on a dead handle
	return e.selectLesson(ctx, index)
}

// Teardown releases the media handle. Idempotent; in-flight upserts are not
// awaited.
func (e *Engine) Teardown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idx >= 0 {
		e.media.Destroy()
	}
	e.idx = -1
	e.state = StateIdle
	e.activeAyah = ""
	e.prompt = PromptNone
}

// upsert pushes a progress row off the engine goroutine, logging instead of
// propagating failure. A slow store must never stall the poll loop or the
// accessors, so the write runs outside the lock.
func (e *Engine) upsert(ctx context.Context, lessonID int, position float64, completed bool) {
	go func() {
		if err := e.store.Upsert(ctx, lessonID, position, completed); err != nil {
			log.Printf("[PLAYBACK] Progress sync failed for lesson %d: %v", lessonID, err)
		}
	}()
}

// lessonLocked: default-locked lessons open once the previous lesson (or the
// lesson itself) is completed. Callers hold the mutex.
func (e *Engine) lessonLocked(index int) bool {
	lesson := e.course.Lessons[index]
	if !lesson.LockedByDefault || e.unlocked[index] || e.completed[lesson.ID] {
		return false
	}
	if index > 0 && e.completed[e.course.Lessons[index-1].ID] {
		return false
	}
	return true
}

// --- read-only accessors for the host UI ---

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) LessonIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.idx
}

// Elapsed is the relative position within the active segment.
func (e *Engine) Elapsed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}

// Duration is the effective length of the active segment.
func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idx < 0 {
		return 0
	}
	return e.course.Lessons[e.idx].Duration()
}

// ActiveAyah is the caption for the current position, or "".
func (e *Engine) ActiveAyah() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeAyah
}

func (e *Engine) Prompt() Prompt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prompt
}

func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// LessonCompleted reports whether the lesson at index is completed.
func (e *Engine) LessonCompleted(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.course.Lessons) {
		return false
	}
	return e.completed[e.course.Lessons[index].ID]
}

// LessonLocked reports the lock icon state for a lesson card.
func (e *Engine) LessonLocked(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.course.Lessons) {
		return true
	}
	return e.lessonLocked(index)
}
