// Package manifest holds the static per-course lesson data: segment time
// ranges inside the source video, lock defaults, and the ayah-to-timestamp
// table driving the synchronized text overlay.
package manifest

import "fmt"

// LessonSegment is a bounded time range of a media asset presented as one
// unit of study. Offsets are absolute seconds into the source video.
// HardStop, when non-zero, is an authoritative early end (e.g. trimming an
// outro) and overrides End for playback purposes.
type LessonSegment struct {
	ID              int     `json:"id"`
	LessonNumber    int     `json:"lesson_number"`
	Title           string  `json:"title"`
	Subtitle        string  `json:"subtitle"`
	MediaRef        string  `json:"video_id"`
	Start           float64 `json:"start"`
	End             float64 `json:"end"`
	HardStop        float64 `json:"hard_stop,omitempty"`
	LockedByDefault bool    `json:"is_locked_by_default"`
	DurationLabel   string  `json:"duration"`
}

// StopAt returns the authoritative end-of-segment offset.
func (l LessonSegment) StopAt() float64 {
	if l.HardStop > 0 {
		return l.HardStop
	}
	return l.End
}

// Duration is the effective segment length in seconds.
func (l LessonSegment) Duration() float64 {
	return l.StopAt() - l.Start
}

// AyahSegment maps one verse to its absolute time range in the video.
type AyahSegment struct {
	Number int     `json:"number"`
	Text   string  `json:"text"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

// CourseManifest is the immutable, load-once description of one surah course.
// Surahs without lessons are listed but presented as coming soon.
type CourseManifest struct {
	SurahID    int             `json:"surah_id"`
	NameSomali string          `json:"name_somali"`
	NameArabic string          `json:"name_arabic"`
	Lessons    []LessonSegment `json:"lessons"`
	Ayahs      []AyahSegment   `json:"ayahs,omitempty"`
}

// Available reports whether the course has published lessons.
func (c CourseManifest) Available() bool { return len(c.Lessons) > 0 }

// Lesson returns the lesson with the given course-scoped id.
func (c CourseManifest) Lesson(id int) (LessonSegment, bool) {
	for _, l := range c.Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return LessonSegment{}, false
}

// LessonIDs returns the ids of all lessons in course order.
func (c CourseManifest) LessonIDs() []int {
	ids := make([]int, 0, len(c.Lessons))
	for _, l := range c.Lessons {
		ids = append(ids, l.ID)
	}
	return ids
}

// ActiveAyah returns the ayah whose range contains the absolute position,
// or false when the position falls between ayah ranges.
func (c CourseManifest) ActiveAyah(absPos float64) (AyahSegment, bool) {
	for _, a := range c.Ayahs {
		if absPos >= a.Start && absPos < a.End {
			return a, true
		}
	}
	return AyahSegment{}, false
}

// Lookup returns the manifest for a surah id.
func Lookup(surahID int) (CourseManifest, bool) {
	for _, c := range Surahs {
		if c.SurahID == surahID {
			return c, true
		}
	}
	return CourseManifest{}, false
}

// FormatTime renders seconds as m:ss for duration labels.
func FormatTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
