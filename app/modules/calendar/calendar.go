// Package calendar creates video interview events on Google Calendar.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ErrNotConfigured is returned when no calendar credentials are set.
var ErrNotConfigured = errors.New("calendar integration is not configured")

const (
	defaultTokenURL   = "https://oauth2.googleapis.com/token"
	defaultAPIBaseURL = "https://www.googleapis.com/calendar/v3"
	defaultCalendarID = "primary"
)

// Config holds the OAuth2 client and the calendar to write to.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
	TokenURL     string
	APIBaseURL   string
}

// Configured reports whether enough credentials are present to call the API.
func (c Config) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Event is a meeting to create.
type Event struct {
	Summary   string
	Start     time.Time
	End       time.Time
	Attendees []string
}

// GoogleClient talks to the Google Calendar REST API.
type GoogleClient struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewGoogleClient builds a client that refreshes its access token from
// cfg.RefreshToken. An unconfigured client answers every call with
// ErrNotConfigured.
func NewGoogleClient(ctx context.Context, cfg Config, logger *slog.Logger) *GoogleClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = defaultCalendarID
	}

	c := &GoogleClient{cfg: cfg, logger: logger}
	if !cfg.Configured() {
		return c
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL},
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
	}
	src := oauthCfg.TokenSource(context.WithoutCancel(ctx), &oauth2.Token{RefreshToken: cfg.RefreshToken})
	c.http = oauth2.NewClient(context.WithoutCancel(ctx), src)
	c.http.Timeout = 15 * time.Second
	return c
}

type eventTime struct {
	DateTime string `json:"dateTime"`
}

type attendee struct {
	Email string `json:"email"`
}

type conferenceRequest struct {
	CreateRequest struct {
		RequestID             string `json:"requestId"`
		ConferenceSolutionKey struct {
			Type string `json:"type"`
		} `json:"conferenceSolutionKey"`
	} `json:"createRequest"`
}

type eventRequest struct {
	Summary        string            `json:"summary"`
	Start          eventTime         `json:"start"`
	End            eventTime         `json:"end"`
	Attendees      []attendee        `json:"attendees,omitempty"`
	ConferenceData conferenceRequest `json:"conferenceData"`
}

type eventResponse struct {
	ID             string `json:"id"`
	HangoutLink    string `json:"hangoutLink"`
	ConferenceData struct {
		EntryPoints []struct {
			EntryPointType string `json:"entryPointType"`
			URI            string `json:"uri"`
		} `json:"entryPoints"`
	} `json:"conferenceData"`
}

// CreateVideoInterviewEvent creates ev with a Meet conference and returns its link.
func (c *GoogleClient) CreateVideoInterviewEvent(ctx context.Context, ev Event) (string, error) {
	if c.http == nil {
		return "", ErrNotConfigured
	}

	body := eventRequest{
		Summary: ev.Summary,
		Start:   eventTime{DateTime: ev.Start.UTC().Format(time.RFC3339)},
		End:     eventTime{DateTime: ev.End.UTC().Format(time.RFC3339)},
	}
	for _, email := range ev.Attendees {
		if email != "" {
			body.Attendees = append(body.Attendees, attendee{Email: email})
		}
	}
	body.ConferenceData.CreateRequest.RequestID = uuid.NewString()
	body.ConferenceData.CreateRequest.ConferenceSolutionKey.Type = "hangoutsMeet"

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode calendar event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1&sendUpdates=all",
		strings.TrimRight(c.cfg.APIBaseURL, "/"), url.PathEscape(c.cfg.CalendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("calendar API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode calendar response: %w", err)
	}

	link := out.HangoutLink
	if link == "" {
		for _, ep := range out.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				link = ep.URI
				break
			}
		}
	}
	if link == "" {
		return "", fmt.Errorf("calendar event %s has no meeting link", out.ID)
	}

	c.logger.InfoContext(ctx, "Created calendar event",
		slog.String("event_id", out.ID),
		slog.String("summary", ev.Summary),
	)
	return link, nil
}
