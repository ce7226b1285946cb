package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anwaar/manifest"
	"anwaar/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateFreeSurahAlwaysUnlocked(t *testing.T) {
	gate := NewGate(NewAPI("http://unused"))

	assert.True(t, gate.IsUnlocked(manifest.FreeSurahID))
	assert.False(t, gate.IsUnlocked(103))

	// even a lock event for the free surah changes nothing
	gate.applyEvent(realtime.AccessEvent{KeyID: "key-1", SurahID: manifest.FreeSurahID, IsUnlocked: false})
	assert.True(t, gate.IsUnlocked(manifest.FreeSurahID))
}

func TestGateAppliesUnlockAndRevoke(t *testing.T) {
	gate := NewGate(NewAPI("http://unused"))

	changes := 0
	gate.OnChange = func() { changes++ }

	gate.applyEvent(realtime.AccessEvent{KeyID: "key-1", SurahID: 103, IsUnlocked: true})
	assert.True(t, gate.IsUnlocked(103))
	assert.Equal(t, 1, changes)

	// a repeat of the same event is not a change
	gate.applyEvent(realtime.AccessEvent{KeyID: "key-1", SurahID: 103, IsUnlocked: true})
	assert.Equal(t, 1, changes)

	gate.applyEvent(realtime.AccessEvent{KeyID: "key-1", SurahID: 103, IsUnlocked: false})
	assert.False(t, gate.IsUnlocked(103))
	assert.Equal(t, 2, changes)
}

func TestGateRefreshReplacesUnlockSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"Access fetched successfully!","data":{"unlocked":[1,103]}}`))
	}))
	defer server.Close()

	gate := NewGate(NewAPI(server.URL))
	gate.applyEvent(realtime.AccessEvent{KeyID: "key-1", SurahID: 104, IsUnlocked: true})
	require.True(t, gate.IsUnlocked(104))

	require.NoError(t, gate.Refresh(context.Background()))

	// the server's view wins: 104 was revoked while the stream was down
	assert.True(t, gate.IsUnlocked(103))
	assert.False(t, gate.IsUnlocked(104))
	assert.True(t, gate.IsUnlocked(manifest.FreeSurahID))
}

func TestGateConsumeStreamParsesEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(": ping\n\n"))
		w.Write([]byte("event: access\ndata: {\"key_id\":\"key-1\",\"surah_id\":103,\"is_unlocked\":true}\n\n"))
	}))
	defer server.Close()

	api := NewAPI(server.URL)
	api.SetToken("token")
	gate := NewGate(api)

	require.NoError(t, gate.consumeStream(context.Background()))
	assert.True(t, gate.IsUnlocked(103))
}

func TestGateRunStopsWhenSessionRevoked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":false,"message":"Access revoked","data":null}`))
	}))
	defer server.Close()

	gate := NewGate(NewAPI(server.URL))
	loggedOut := 0
	gate.OnInvalidSession = func() { loggedOut++ }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	gate.Run(ctx) // must return on its own, not via the timeout

	require.NoError(t, ctx.Err(), "Run kept retrying a rejected session")
	assert.Equal(t, 1, loggedOut)
}

func TestGateRunStopsWhenStreamRejectsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/access/stream" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"status":true,"message":"Access fetched successfully!","data":{"unlocked":[1]}}`))
	}))
	defer server.Close()

	gate := NewGate(NewAPI(server.URL))
	loggedOut := 0
	gate.OnInvalidSession = func() { loggedOut++ }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	gate.Run(ctx)

	require.NoError(t, ctx.Err(), "Run kept retrying a rejected session")
	assert.Equal(t, 1, loggedOut)
}

func TestGateConsumeStreamRejectedSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	api := NewAPI(server.URL)
	gate := NewGate(api)

	assert.ErrorIs(t, gate.consumeStream(context.Background()), ErrUnauthorized)
}
