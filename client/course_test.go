package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"anwaar/manifest"
	"anwaar/playback"
	"anwaar/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMedia struct {
	loads    int
	destroys int
	pos      float64
}

func (m *stubMedia) Load(_ string, _, _ float64) error { m.loads++; return nil }
func (m *stubMedia) Play()                             {}
func (m *stubMedia) Pause()                            {}
func (m *stubMedia) SeekTo(abs float64)                { m.pos = abs }
func (m *stubMedia) Mute()                             {}
func (m *stubMedia) Unmute()                           {}
func (m *stubMedia) Position() float64                 { return m.pos }
func (m *stubMedia) Destroy()                          { m.destroys++ }

func newCourseConfig(t *testing.T) (CourseSessionConfig, *stubMedia) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"Progress fetched successfully!","data":[]}`))
	}))
	t.Cleanup(server.Close)

	api := NewAPI(server.URL)
	media := &stubMedia{}
	return CourseSessionConfig{
		API:             api,
		Gate:            NewGate(api),
		Media:           media,
		InstructorPhone: "252672441316",
		OpenURL:         func(string) error { return nil },
	}, media
}

func TestOpenCourseRefusesLockedSurah(t *testing.T) {
	cfg, _ := newCourseConfig(t)

	_, err := OpenCourse(context.Background(), 103, cfg)
	assert.ErrorIs(t, err, ErrSurahLocked)
}

func TestOpenCourseRefusesUnknownSurah(t *testing.T) {
	cfg, _ := newCourseConfig(t)
	cfg.Gate.applyEvent(realtime.AccessEvent{KeyID: "key-1", SurahID: 999, IsUnlocked: true})

	_, err := OpenCourse(context.Background(), 999, cfg)
	assert.Error(t, err)
}

func TestOpenCourseRefusesComingSoonSurah(t *testing.T) {
	cfg, _ := newCourseConfig(t)
	cfg.Gate.applyEvent(realtime.AccessEvent{KeyID: "key-1", SurahID: 103, IsUnlocked: true})

	_, err := OpenCourse(context.Background(), 103, cfg)
	assert.ErrorIs(t, err, ErrCourseUnavailable)
}

func TestOpenCourseWiresEngineAndCards(t *testing.T) {
	cfg, media := newCourseConfig(t)

	session, err := OpenCourse(context.Background(), manifest.FreeSurahID, cfg)
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, manifest.FreeSurahID, session.Course().SurahID)
	assert.Equal(t, playback.StateLoading, session.Engine().State())
	assert.Equal(t, 1, media.loads)

	cards := session.LessonCards()
	require.Len(t, cards, 2)
	assert.True(t, cards[0].Active)
	assert.False(t, cards[0].Locked)
	assert.False(t, cards[0].Completed)
	assert.True(t, cards[1].Locked)
	assert.False(t, cards[1].Active)

	// a locked lesson card tap is refused
	err = session.SelectLesson(context.Background(), 1)
	assert.ErrorIs(t, err, playback.ErrLessonLocked)
}

func TestCourseSessionCloseTearsDownOnce(t *testing.T) {
	cfg, media := newCourseConfig(t)

	session, err := OpenCourse(context.Background(), manifest.FreeSurahID, cfg)
	require.NoError(t, err)

	session.Close()
	assert.Equal(t, 1, media.destroys)
	assert.Equal(t, playback.StateIdle, session.Engine().State())

	// navigating away twice must not destroy the dead handle again
	session.Close()
	assert.Equal(t, 1, media.destroys)
}
