package offerhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	offerdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *FakeService) http.Handler {
	r := chi.NewRouter()
	NewOfferHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Routes(r)
	return r
}

func TestHandleCreateOffer(t *testing.T) {
	applicationID := uuid.New()
	actorID := uuid.New()

	tests := []struct {
		name     string
		actor    string
		body     string
		wantCode int
	}{
		{
			name:     "created",
			actor:    actorID.String(),
			body:     `{"candidate_email":"a@example.com","salary":100,"start_date":"2026-11-01T00:00:00Z","expires_at":"2026-10-23T00:00:00Z"}`,
			wantCode: http.StatusCreated,
		},
		{name: "missing actor", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "unknown field", actor: actorID.String(), body: `{"bonus":1}`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{
				CreateOfferFunc: func(ctx context.Context, params offertypes.CreateOfferParams, actor uuid.UUID) (offertypes.Offer, error) {
					assert.Equal(t, applicationID, params.ApplicationID)
					assert.Equal(t, actorID, actor)
					return offertypes.Offer{ID: uuid.New(), ApplicationID: params.ApplicationID, Status: offertypes.StatusDraft}, nil
				},
			}
			req := httptest.NewRequest(http.MethodPost, "/applications/"+applicationID.String()+"/offers", strings.NewReader(tt.body))
			if tt.actor != "" {
				req.Header.Set(httpapi.ActorHeader, tt.actor)
			}
			rr := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusCreated {
				var got offertypes.Offer
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
				assert.Equal(t, offertypes.StatusDraft, got.Status)
			}
		})
	}
}

func TestHandleSendOfferNotFound(t *testing.T) {
	svc := &FakeService{
		SendOfferFunc: func(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error) {
			return offertypes.Offer{}, offerdb.ErrNotFound
		},
	}
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/offers/"+uuid.NewString()+"/send", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleRespondToOffer(t *testing.T) {
	offerID := uuid.New()
	svc := &FakeService{
		RespondToOfferFunc: func(ctx context.Context, id uuid.UUID, response offertypes.Response) (offertypes.Offer, error) {
			assert.Equal(t, offerID, id)
			assert.Equal(t, offertypes.ResponseAccept, response)
			return offertypes.Offer{ID: id, Status: offertypes.StatusAccepted}, nil
		},
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/offers/"+offerID.String()+"/respond", strings.NewReader(`{"response":"ACCEPT"}`))
	newTestRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got offertypes.Offer
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, offertypes.StatusAccepted, got.Status)
}
