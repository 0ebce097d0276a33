package calendar

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalendarServer(t *testing.T, status int, response string) (*httptest.Server, *eventRequest) {
	t.Helper()
	var got eventRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &got
}

func testConfig(srv *httptest.Server) Config {
	return Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh-1",
		TokenURL:     srv.URL + "/token",
		APIBaseURL:   srv.URL,
	}
}

func TestCreateVideoInterviewEvent(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	start := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	ev := Event{Summary: "Interview", Start: start, End: start.Add(time.Hour), Attendees: []string{"c@example.com", ""}}

	t.Run("hangout link", func(t *testing.T) {
		srv, got := newCalendarServer(t, http.StatusOK, `{"id":"ev1","hangoutLink":"https://meet.google.com/abc-defg-hij"}`)
		client := NewGoogleClient(ctx, testConfig(srv), logger)

		link, err := client.CreateVideoInterviewEvent(ctx, ev)
		require.NoError(t, err)
		assert.Equal(t, "https://meet.google.com/abc-defg-hij", link)
		assert.Equal(t, "Interview", got.Summary)
		assert.Equal(t, "2026-10-17T10:00:00Z", got.Start.DateTime)
		assert.Len(t, got.Attendees, 1)
		assert.Equal(t, "hangoutsMeet", got.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
	})

	t.Run("entry point fallback", func(t *testing.T) {
		srv, _ := newCalendarServer(t, http.StatusOK, `{"id":"ev2","conferenceData":{"entryPoints":[{"entryPointType":"phone","uri":"tel:1"},{"entryPointType":"video","uri":"https://meet.example/x"}]}}`)
		link, err := NewGoogleClient(ctx, testConfig(srv), logger).CreateVideoInterviewEvent(ctx, ev)
		require.NoError(t, err)
		assert.Equal(t, "https://meet.example/x", link)
	})

	t.Run("api error", func(t *testing.T) {
		srv, _ := newCalendarServer(t, http.StatusForbidden, `{"error":"forbidden"}`)
		_, err := NewGoogleClient(ctx, testConfig(srv), logger).CreateVideoInterviewEvent(ctx, ev)
		assert.ErrorContains(t, err, "403")
	})

	t.Run("no link", func(t *testing.T) {
		srv, _ := newCalendarServer(t, http.StatusOK, `{"id":"ev3"}`)
		_, err := NewGoogleClient(ctx, testConfig(srv), logger).CreateVideoInterviewEvent(ctx, ev)
		assert.Error(t, err)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewGoogleClient(ctx, Config{}, logger).CreateVideoInterviewEvent(ctx, ev)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
