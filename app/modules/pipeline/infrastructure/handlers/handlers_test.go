package pipelinehandlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	pipelineservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/application"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	pipelinequeue "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/queue"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *FakeService, jobs JobLister) http.Handler {
	r := chi.NewRouter()
	NewPipelineHandlers(svc, jobs, slog.New(slog.DiscardHandler)).Routes(r)
	return r
}

func TestHandleAdvance(t *testing.T) {
	appID := uuid.New()
	jobID := uuid.New()
	roundID := uuid.New()
	actor := uuid.New()

	tests := []struct {
		name     string
		body     string
		actor    string
		svcErr   error
		wantCode int
		wantRef  func(t *testing.T, ref roundtypes.RoundRef)
	}{
		{
			name:     "by id",
			body:     `{"round":"` + roundID.String() + `"}`,
			actor:    actor.String(),
			wantCode: http.StatusOK,
			wantRef: func(t *testing.T, ref roundtypes.RoundRef) {
				id, ok := ref.ID()
				require.True(t, ok)
				assert.Equal(t, roundID, id)
			},
		},
		{
			name:     "by alias",
			body:     `{"round":"fixed-HIRED-` + jobID.String() + `","skip_automation":true}`,
			actor:    actor.String(),
			wantCode: http.StatusOK,
			wantRef: func(t *testing.T, ref roundtypes.RoundRef) {
				job, key, ok := ref.FixedKey()
				require.True(t, ok)
				assert.Equal(t, jobID, job)
				assert.Equal(t, roundtypes.FixedHired, key)
			},
		},
		{
			name:     "missing actor",
			body:     `{"round":"` + roundID.String() + `"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unparsable round",
			body:     `{"round":"fixed-LUNCH-1"}`,
			actor:    actor.String(),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "cross job round",
			body:     `{"round":"` + roundID.String() + `"}`,
			actor:    actor.String(),
			svcErr:   pipelineservice.ErrCrossJobRound,
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got pipelinetypes.AdvanceRequest
			svc := &FakeService{
				AdvanceFunc: func(ctx context.Context, req pipelinetypes.AdvanceRequest) (pipelinetypes.Application, error) {
					got = req
					return pipelinetypes.Application{ID: req.ApplicationID}, tt.svcErr
				},
			}
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/applications/"+appID.String()+"/advance", strings.NewReader(tt.body))
			if tt.actor != "" {
				req.Header.Set(httpapi.ActorHeader, tt.actor)
			}

			newTestRouter(svc, nil).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantRef != nil {
				tt.wantRef(t, got.Round)
				assert.Equal(t, appID, got.ApplicationID)
				assert.Equal(t, actor, got.ActorID)
			}
		})
	}
}

func TestHandleAdvanceSkipAutomation(t *testing.T) {
	var got pipelinetypes.AdvanceRequest
	svc := &FakeService{
		AdvanceFunc: func(ctx context.Context, req pipelinetypes.AdvanceRequest) (pipelinetypes.Application, error) {
			got = req
			return pipelinetypes.Application{}, nil
		},
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/advance",
		strings.NewReader(`{"round":"`+uuid.NewString()+`","skip_automation":true}`))
	req.Header.Set(httpapi.ActorHeader, uuid.NewString())

	newTestRouter(svc, nil).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, got.SkipAutomation)
}

func TestHandleCreateApplication(t *testing.T) {
	jobID := uuid.New()

	tests := []struct {
		name      string
		actor     string
		body      string
		wantCode  int
		wantActor uuid.UUID
	}{
		{
			name:     "anonymous candidate",
			body:     `{"job_id":"` + jobID.String() + `","candidate_name":"Ada","candidate_email":"ada@example.com"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "bad actor header",
			actor:    "nope",
			body:     `{"job_id":"` + jobID.String() + `"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown field",
			body:     `{"job_id":"` + jobID.String() + `","resume":"x"}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotActor uuid.UUID
			svc := &FakeService{
				CreateApplicationFunc: func(ctx context.Context, input pipelinetypes.NewApplicationInput, actorID uuid.UUID) (pipelinetypes.Application, error) {
					gotActor = actorID
					assert.Equal(t, jobID, input.JobID)
					return pipelinetypes.Application{ID: uuid.New(), JobID: input.JobID}, nil
				},
			}
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(tt.body))
			if tt.actor != "" {
				req.Header.Set(httpapi.ActorHeader, tt.actor)
			}

			newTestRouter(svc, nil).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantActor, gotActor)
		})
	}
}

func TestHandleAssignAssessment(t *testing.T) {
	tests := []struct {
		name     string
		created  bool
		wantCode int
	}{
		{name: "new assessment", created: true, wantCode: http.StatusCreated},
		{name: "existing assessment", created: false, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessmentID := uuid.New()
			svc := &FakeService{
				AssignAssessmentFunc: func(ctx context.Context, applicationID, roundID, actorID uuid.UUID) (assessmenttypes.InviteResult, error) {
					return assessmenttypes.InviteResult{AssessmentID: assessmentID, Token: "secret", Created: tt.created}, nil
				},
			}
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/rounds/"+uuid.NewString()+"/assessment", nil)
			req.Header.Set(httpapi.ActorHeader, uuid.NewString())

			newTestRouter(svc, nil).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.NotContains(t, rr.Body.String(), "secret")
			var body map[string]any
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, assessmentID.String(), body["assessment_id"])
		})
	}
}

func TestHandleScheduleInterviewNotConfigured(t *testing.T) {
	svc := &FakeService{
		ScheduleInterviewFunc: func(ctx context.Context, applicationID, roundID uuid.UUID) (pipelinetypes.Interview, error) {
			return pipelinetypes.Interview{}, pipelineservice.ErrInterviewNotConfigured
		},
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/rounds/"+uuid.NewString()+"/interview", nil)

	newTestRouter(svc, nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandleExportBoard(t *testing.T) {
	jobID := uuid.New()
	rr := httptest.NewRecorder()

	newTestRouter(&FakeService{}, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/"+jobID.String()+"/board.xlsx", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), jobID.String())
	assert.Equal(t, "PK", rr.Body.String())
}

func TestHandleFunnelChart(t *testing.T) {
	rr := httptest.NewRecorder()

	newTestRouter(&FakeService{}, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString()+"/funnel.png", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
}

func TestAutomationJobsRoute(t *testing.T) {
	path := "/applications/" + uuid.NewString() + "/automation-jobs"

	t.Run("absent without a lister", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestRouter(&FakeService{}, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("lists queued jobs", func(t *testing.T) {
		jobs := &fakeJobs{jobs: []pipelinequeue.JobInfo{{ID: 3, State: "available"}}}
		rr := httptest.NewRecorder()
		newTestRouter(&FakeService{}, jobs).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got []pipelinequeue.JobInfo
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, jobs.jobs, got)
	})
}
