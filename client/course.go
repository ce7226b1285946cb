package client

import (
	"context"
	"errors"
	"fmt"

	"anwaar/manifest"
	"anwaar/playback"
)

var (
	// ErrSurahLocked means the student has no access to the surah.
	ErrSurahLocked = errors.New("client: surah is locked")
	// ErrCourseUnavailable means the surah has no published lessons yet.
	ErrCourseUnavailable = errors.New("client: course has no published lessons")
)

// CourseSessionConfig carries the collaborators a course session wires up.
type CourseSessionConfig struct {
	API             *API
	Gate            *Gate
	Media           playback.MediaHandle
	InstructorPhone string
	// OpenURL launches deep links in the student's browser.
	OpenURL func(url string) error
}

// CourseSession composes one open course: the manifest, the access gate
// check, and a playback engine backed by the remote progress store and the
// WhatsApp notifier. One session per open course; navigating to another
// course means Close on the old session and OpenCourse for the new one.
type CourseSession struct {
	course manifest.CourseManifest
	engine *playback.Engine
	cancel context.CancelFunc
}

// OpenCourse checks access, builds the engine and starts its polling loop.
func OpenCourse(ctx context.Context, surahID int, cfg CourseSessionConfig) (*CourseSession, error) {
	if !cfg.Gate.IsUnlocked(surahID) {
		return nil, ErrSurahLocked
	}
	course, ok := manifest.Lookup(surahID)
	if !ok {
		return nil, fmt.Errorf("client: unknown surah %d", surahID)
	}
	if !course.Available() {
		return nil, ErrCourseUnavailable
	}

	store := NewAPIProgressStore(cfg.API, surahID)
	notifier := NewWhatsAppNotifier(cfg.InstructorPhone, course.NameSomali, cfg.OpenURL)

	engine, err := playback.New(course, cfg.Media, store, notifier)
	if err != nil {
		return nil, err
	}
	if err := engine.Start(ctx); err != nil {
		return nil, err
	}

	// The session owns the polling loop's lifetime, not the caller's ctx.
	runCtx, cancel := context.WithCancel(context.Background())
	go engine.Run(runCtx)

	return &CourseSession{course: course, engine: engine, cancel: cancel}, nil
}

// Engine exposes the playback engine for the player surface.
func (s *CourseSession) Engine() *playback.Engine { return s.engine }

// Course returns the course manifest.
func (s *CourseSession) Course() manifest.CourseManifest { return s.course }

// SelectLesson is the lesson-card tap: locked lessons are refused, and
// reselecting the active lesson toggles play.
func (s *CourseSession) SelectLesson(ctx context.Context, index int) error {
	return s.engine.SelectLesson(ctx, index)
}

// LessonCard is what the course page renders per lesson.
type LessonCard struct {
	Lesson    manifest.LessonSegment
	Completed bool
	Locked    bool
	Active    bool
}

// LessonCards returns the current card states in course order.
func (s *CourseSession) LessonCards() []LessonCard {
	active := s.engine.LessonIndex()
	cards := make([]LessonCard, 0, len(s.course.Lessons))
	for i, lesson := range s.course.Lessons {
		cards = append(cards, LessonCard{
			Lesson:    lesson,
			Completed: s.engine.LessonCompleted(i),
			Locked:    s.engine.LessonLocked(i),
			Active:    i == active,
		})
	}
	return cards
}

// Close stops the polling loop and releases the media handle synchronously.
// Safe to call more than once.
func (s *CourseSession) Close() {
	s.cancel()
	s.engine.Teardown()
}
