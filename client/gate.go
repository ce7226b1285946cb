package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"anwaar/manifest"
	"anwaar/realtime"
)

const (
	// gateResyncInterval is the safety-net refetch period. SSE delivers
	// unlocks immediately; the resync catches anything a dropped
	// connection missed.
	gateResyncInterval = 60 * time.Second

	// sseRetryDelay is the backoff before reopening a dropped stream.
	sseRetryDelay = 5 * time.Second
)

// Gate tracks which surahs the session may open. The free surah is always
// unlocked; the rest follow the server's access rows, kept current by the
// SSE stream with a periodic refetch backstop.
type Gate struct {
	api *API

	mu       sync.RWMutex
	unlocked map[int]bool

	// OnChange, when set, is called after every change to the unlock
	// set so the UI can re-render the course list.
	OnChange func()

	// OnInvalidSession, when set, is called once when the server rejects
	// the session token (expired or key revoked); Run stops afterwards
	// so the host can clear the stored session and show the login screen.
	OnInvalidSession func()
}

func NewGate(api *API) *Gate {
	return &Gate{
		api:      api,
		unlocked: map[int]bool{manifest.FreeSurahID: true},
	}
}

// IsUnlocked reports whether the surah is open to the student.
func (g *Gate) IsUnlocked(surahID int) bool {
	if surahID == manifest.FreeSurahID {
		return true
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.unlocked[surahID]
}

// Unlocked returns a snapshot of the open surah ids.
func (g *Gate) Unlocked() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]int, 0, len(g.unlocked))
	for id, ok := range g.unlocked {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Refresh replaces the unlock set with the server's current view.
func (g *Gate) Refresh(ctx context.Context) error {
	ids, err := g.api.FetchAccess(ctx)
	if err != nil {
		return err
	}

	next := map[int]bool{manifest.FreeSurahID: true}
	for _, id := range ids {
		next[id] = true
	}

	g.mu.Lock()
	changed := len(next) != len(g.unlocked)
	if !changed {
		for id := range next {
			if !g.unlocked[id] {
				changed = true
				break
			}
		}
	}
	g.unlocked = next
	g.mu.Unlock()

	if changed {
		g.notify()
	}
	return nil
}

// applyEvent folds one realtime event into the unlock set. The free surah
// never locks, whatever the event says.
func (g *Gate) applyEvent(event realtime.AccessEvent) {
	if event.SurahID == manifest.FreeSurahID {
		return
	}

	g.mu.Lock()
	changed := g.unlocked[event.SurahID] != event.IsUnlocked
	if event.IsUnlocked {
		g.unlocked[event.SurahID] = true
	} else {
		delete(g.unlocked, event.SurahID)
	}
	g.mu.Unlock()

	if changed {
		g.notify()
	}
}

func (g *Gate) notify() {
	if g.OnChange != nil {
		g.OnChange()
	}
}

// Run keeps the gate current until ctx is cancelled or the session is
// rejected: an initial refresh, then the SSE stream with reconnects, with a
// periodic full refetch in case a reconnect window swallowed an event. A
// rejected session is terminal — it fires OnInvalidSession and stops instead
// of retrying a token the server will never accept again.
func (g *Gate) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := g.Refresh(ctx); err != nil {
		if g.sessionRejected(err) {
			return
		}
		log.Printf("[ACCESS-GATE] Initial refresh failed: %v", err)
	}

	go g.resyncLoop(ctx)

	for {
		err := g.consumeStream(ctx)
		if g.sessionRejected(err) {
			return
		}
		if err != nil && ctx.Err() == nil {
			log.Printf("[ACCESS-GATE] Stream dropped: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(sseRetryDelay):
		}
		// Streams miss events while down; refetch before resubscribing.
		if err := g.Refresh(ctx); err != nil {
			if g.sessionRejected(err) {
				return
			}
			log.Printf("[ACCESS-GATE] Refresh after reconnect failed: %v", err)
		}
	}
}

// sessionRejected reports whether err means the server refused the session,
// notifying the host when it does.
func (g *Gate) sessionRejected(err error) bool {
	if !errors.Is(err, ErrUnauthorized) {
		return false
	}
	log.Println("[ACCESS-GATE] Session rejected by server, stopping")
	if g.OnInvalidSession != nil {
		g.OnInvalidSession()
	}
	return true
}

func (g *Gate) resyncLoop(ctx context.Context) {
	ticker := time.NewTicker(gateResyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.Refresh(ctx); err != nil {
				log.Printf("[ACCESS-GATE] Resync failed: %v", err)
			}
		}
	}
}

// consumeStream opens the SSE endpoint and applies events until the
// connection drops or ctx is cancelled. resty buffers whole responses, so
// the stream is read with net/http directly.
func (g *Gate) consumeStream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.api.BaseURL()+"/access/stream", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.api.Token())
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrUnauthorized
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue // event name lines and heartbeat comments
		}
		var event realtime.AccessEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			continue
		}
		g.applyEvent(event)
	}
	return scanner.Err()
}
