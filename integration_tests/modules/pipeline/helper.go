//go:build integration

package pipelineintegrationtests

import (
	"context"
	"log/slog"
	"testing"
	"time"

	assessmentservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/application"
	"github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/invitetoken"
	assessmentdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/modules/calendar"
	notificationservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/application"
	offerservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/application"
	offerdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/infrastructure/repositories"
	pipelineservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/application"
	pipelinedb "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories"
	roundservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/application"
	rounddb "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/clock"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/eventbus"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/observability"
	"github.com/Black-And-White-Club/talent-pipeline/integration_tests/testutils"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const meetingBaseURL = "https://meet.example.com"

// services is the pipeline wired against the test database.
type services struct {
	Rounds      *roundservice.RoundService
	Offers      *offerservice.OfferService
	Assessments *assessmentservice.AssessmentService
	Pipeline    *pipelineservice.PipelineService
	Gen         *testutils.TestDataGenerator
}

// newServices wires every module the way the app does. A nil runner runs
// automation inline.
func newServices(t *testing.T, runner pipelineservice.AutomationRunner) *services {
	t.Helper()
	require.NoError(t, testEnv.Reset())

	logger := slog.New(slog.DiscardHandler)
	metrics := observability.NewNoop()
	tracer := noop.NewTracerProvider().Tracer("integration")
	clk := clock.RealClock{}
	db := testEnv.DB

	bus := eventbus.NewInMemory(logger)
	t.Cleanup(func() { _ = bus.Close() })
	sender := notificationservice.NewSender(bus.Publisher, logger)

	rounds := roundservice.NewRoundService(rounddb.NewRepository(db), logger, metrics, tracer, db)
	offers := offerservice.NewOfferService(offerdb.NewRepository(db), sender, clk, logger, metrics, tracer, db)
	assessments := assessmentservice.NewAssessmentService(
		assessmentdb.NewRepository(db),
		invitetoken.NewProvider("integration-secret"),
		rounds,
		bus.Publisher,
		assessmentservice.Config{DispatchOnAutoAdvance: true, DefaultPassThreshold: 70},
		clk, logger, metrics, tracer, db,
	)
	if runner == nil {
		runner = pipelineservice.NewInlineRunner()
	}
	pipeline := pipelineservice.NewPipelineService(
		pipelinedb.NewRepository(db),
		pipelineservice.Collaborators{
			Rounds:        rounds,
			Assessments:   assessments,
			Notifications: sender,
			Calendar:      calendar.NewGoogleClient(context.Background(), calendar.Config{}, logger),
			Offers:        offers,
			Runner:        runner,
			Events:        bus.Publisher,
		},
		pipelineservice.Config{
			CandidatePortalURL: "https://careers.example.com",
			MeetingBaseURL:     meetingBaseURL,
			InterviewSlotRule:  "tomorrow at 10am",
			InterviewLocation:  time.UTC,
		},
		clk, logger, metrics, tracer, db,
	)
	assessments.SetTransitioner(pipeline)

	return &services{
		Rounds:      rounds,
		Offers:      offers,
		Assessments: assessments,
		Pipeline:    pipeline,
		Gen:         testutils.NewTestDataGenerator(),
	}
}
