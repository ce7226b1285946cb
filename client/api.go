package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is returned when the server rejects the session token,
// either because it expired or the access key was revoked.
var ErrUnauthorized = errors.New("session rejected by server")

// envelope is the JSON wrapper every endpoint responds with.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Session is what a successful login returns.
type Session struct {
	SessionToken string `json:"sessionToken"`
	StudentName  string `json:"studentName"`
	KeyID        string `json:"keyId"`
}

// ProgressRow mirrors one stored progress record.
type ProgressRow struct {
	LessonID     int     `json:"lesson_id"`
	SurahID      int     `json:"surah_id"`
	LastPosition float64 `json:"last_position"`
	IsCompleted  bool    `json:"is_completed"`
}

// SurahDetails is the AI-generated info card, all fields in Somali.
type SurahDetails struct {
	NameMeaning       string `json:"nameMeaning"`
	RevelationType    string `json:"revelationType"`
	RevelationContext string `json:"revelationContext"`
	MainTheme         string `json:"mainTheme"`
}

// API is a thin typed wrapper over the platform's HTTP surface.
type API struct {
	rest    *resty.Client
	baseURL string
	token   string
}

func NewAPI(baseURL string) *API {
	return &API{
		rest: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second),
		baseURL: baseURL,
	}
}

// SetToken installs the session token used by authenticated calls.
func (a *API) SetToken(token string) {
	a.token = token
}

// BaseURL exposes the server address for the SSE consumer, which talks
// to the server outside resty.
func (a *API) BaseURL() string { return a.baseURL }

// Token exposes the current session token for the SSE consumer.
func (a *API) Token() string { return a.token }

func (a *API) call(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	req := a.rest.R().SetContext(ctx)
	if a.token != "" {
		req.SetHeader("Authorization", "Bearer "+a.token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	var env envelope
	if resp.StatusCode() == 401 {
		// body may not be the envelope (proxies); the rejection still counts
		_ = json.Unmarshal(resp.Body(), &env)
		return &env, ErrUnauthorized
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("%s %s: bad response: %w", method, path, err)
	}
	if !env.Status {
		return &env, fmt.Errorf("%s %s: %s", method, path, env.Message)
	}
	return &env, nil
}

// Login exchanges a (student name, access code) pair for a session.
func (a *API) Login(ctx context.Context, studentName, accessCode string) (*Session, error) {
	env, err := a.call(ctx, "POST", "/auth/login", map[string]string{
		"studentName": studentName,
		"accessCode":  accessCode,
	})
	if err != nil {
		if errors.Is(err, ErrUnauthorized) && env != nil {
			// surface the Somali message the server chose
			return nil, errors.New(env.Message)
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		return nil, fmt.Errorf("login: bad session payload: %w", err)
	}
	a.token = sess.SessionToken
	return &sess, nil
}

// Verify re-validates the stored session against the server.
func (a *API) Verify(ctx context.Context) error {
	_, err := a.call(ctx, "POST", "/auth/verify", nil)
	return err
}

// FetchProgress returns the session's progress rows for the given lessons.
// An empty lessons slice fetches everything.
func (a *API) FetchProgress(ctx context.Context, lessonIDs []int) ([]ProgressRow, error) {
	path := "/progress/"
	if len(lessonIDs) > 0 {
		path += "?lessons="
		for i, id := range lessonIDs {
			if i > 0 {
				path += ","
			}
			path += fmt.Sprintf("%d", id)
		}
	}

	env, err := a.call(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var rows []ProgressRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, fmt.Errorf("progress: bad payload: %w", err)
	}
	return rows, nil
}

// UpsertProgress writes one progress row. The server keeps is_completed
// monotonic, so sending false for a completed lesson is harmless.
func (a *API) UpsertProgress(ctx context.Context, surahID, lessonID int, position float64, completed bool) error {
	_, err := a.call(ctx, "POST", "/progress/", map[string]interface{}{
		"surah_id":      surahID,
		"lesson_id":     lessonID,
		"last_position": position,
		"is_completed":  completed,
	})
	return err
}

// FetchAccess returns the surah ids unlocked for the session.
func (a *API) FetchAccess(ctx context.Context) ([]int, error) {
	env, err := a.call(ctx, "GET", "/access/", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Unlocked []int `json:"unlocked"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("access: bad payload: %w", err)
	}
	return payload.Unlocked, nil
}

// FetchSurahDetails asks the server for the AI info card of a surah.
func (a *API) FetchSurahDetails(ctx context.Context, surahName string) (*SurahDetails, error) {
	env, err := a.call(ctx, "POST", "/surah/details", map[string]string{
		"surahName": surahName,
	})
	if err != nil {
		return nil, err
	}

	var details SurahDetails
	if err := json.Unmarshal(env.Data, &details); err != nil {
		return nil, fmt.Errorf("surah details: bad payload: %w", err)
	}
	return &details, nil
}
