package client

import (
	"context"
	"fmt"

	"anwaar/manifest"
	"anwaar/playback"
	"anwaar/utils"
)

// ShareCompletionURL is the WhatsApp share link offered alongside the
// continue prompt when a lesson finishes.
func ShareCompletionURL(lesson manifest.LessonSegment) string {
	return utils.WhatsAppShareURL(lesson.LessonNumber, lesson.Title)
}

// APIProgressStore adapts the HTTP API to the playback engine's store port.
// One instance per open course; the surah id scopes every write.
type APIProgressStore struct {
	api     *API
	surahID int
}

func NewAPIProgressStore(api *API, surahID int) *APIProgressStore {
	return &APIProgressStore{api: api, surahID: surahID}
}

func (s *APIProgressStore) Fetch(ctx context.Context, lessonIDs []int) ([]playback.ProgressRecord, error) {
	rows, err := s.api.FetchProgress(ctx, lessonIDs)
	if err != nil {
		return nil, err
	}
	records := make([]playback.ProgressRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, playback.ProgressRecord{
			LessonID:     row.LessonID,
			LastPosition: row.LastPosition,
			IsCompleted:  row.IsCompleted,
		})
	}
	return records, nil
}

func (s *APIProgressStore) Upsert(ctx context.Context, lessonID int, position float64, completed bool) error {
	return s.api.UpsertProgress(ctx, s.surahID, lessonID, position, completed)
}

// WhatsAppNotifier fulfils the course-completion notify action by opening
// the instructor's WhatsApp chat with a prefilled Somali message.
type WhatsAppNotifier struct {
	instructorPhone string
	surahName       string

	// OpenURL launches the link in the student's browser. Injected so
	// tests can capture the URL instead of spawning a browser.
	OpenURL func(url string) error
}

func NewWhatsAppNotifier(instructorPhone, surahName string, openURL func(string) error) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		instructorPhone: instructorPhone,
		surahName:       surahName,
		OpenURL:         openURL,
	}
}

func (n *WhatsAppNotifier) NotifyCourseComplete(_ context.Context) error {
	if n.OpenURL == nil {
		return fmt.Errorf("notifier: no URL opener configured")
	}
	return n.OpenURL(utils.InstructorWhatsAppURL(n.instructorPhone, n.surahName))
}
