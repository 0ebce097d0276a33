package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	assessmentservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/application"
	assessmenthandlers "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/handlers"
	"github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/invitetoken"
	assessmentdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/modules/calendar"
	notificationservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/application"
	notificationrouter "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/infrastructure/router"
	offerservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/application"
	offerhandlers "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/infrastructure/handlers"
	offerdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/infrastructure/repositories"
	pipelineservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/application"
	pipelinehandlers "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/handlers"
	pipelinequeue "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/queue"
	pipelinedb "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories"
	roundservice "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/application"
	roundhandlers "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/handlers"
	rounddb "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/clock"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/eventbus"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/observability"
	"github.com/Black-And-White-Club/talent-pipeline/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "talent-pipeline"

// App holds the wired services and the infrastructure they share.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *bun.DB
	Registry *prometheus.Registry
	Metrics  observability.Metrics
	Tracer   trace.Tracer
	Bus      *eventbus.Bus

	RoundService      *roundservice.RoundService
	OfferService      *offerservice.OfferService
	AssessmentService *assessmentservice.AssessmentService
	PipelineService   *pipelineservice.PipelineService

	NotificationRouter *notificationrouter.NotificationRouter

	goroutineRunner *pipelineservice.GoroutineRunner
	riverRunner     *pipelinequeue.Runner

	handlers []routable
}

// NewApp opens the database and event bus and wires every module.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Registry: registry,
		Metrics:  observability.NewPrometheusMetrics(registry),
		Tracer:   otel.Tracer(serviceName),
	}

	if err := app.initialize(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) initialize(ctx context.Context) error {
	cfg := a.Config
	clk := clock.RealClock{}

	loc, err := time.LoadLocation(cfg.Pipeline.InterviewTimezone)
	if err != nil {
		return fmt.Errorf("invalid interview_timezone %q: %w", cfg.Pipeline.InterviewTimezone, err)
	}

	bus, err := eventbus.New(cfg.NATS.URL, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}
	a.Bus = bus

	sender := notificationservice.NewSender(bus.Publisher, a.Logger)
	a.NotificationRouter, err = notificationrouter.NewNotificationRouter(
		a.Logger, bus.Logger, bus.Subscriber, notificationrouter.LogDeliverer{Logger: a.Logger}, a.Registry,
	)
	if err != nil {
		return err
	}

	a.RoundService = roundservice.NewRoundService(rounddb.NewRepository(a.DB), a.Logger, a.Metrics, a.Tracer, a.DB)
	a.OfferService = offerservice.NewOfferService(offerdb.NewRepository(a.DB), sender, clk, a.Logger, a.Metrics, a.Tracer, a.DB)
	a.AssessmentService = assessmentservice.NewAssessmentService(
		assessmentdb.NewRepository(a.DB),
		invitetoken.NewProvider(cfg.Pipeline.InvitationSecret),
		a.RoundService,
		bus.Publisher,
		assessmentservice.Config{
			DispatchOnAutoAdvance: cfg.Pipeline.ShouldDispatchOnAutoAdvance(),
			DefaultPassThreshold:  cfg.Pipeline.DefaultPassThreshold,
		},
		clk, a.Logger, a.Metrics, a.Tracer, a.DB,
	)

	var runner pipelineservice.AutomationRunner
	var jobs pipelinehandlers.JobLister
	switch cfg.Pipeline.AutomationMode {
	case config.AutomationRiver:
		a.riverRunner, err = pipelinequeue.NewRunner(ctx, a.DB, cfg.Postgres.DSN, a.Logger, a.Metrics)
		if err != nil {
			return fmt.Errorf("failed to initialize river runner: %w", err)
		}
		runner, jobs = a.riverRunner, a.riverRunner
	default:
		a.goroutineRunner = pipelineservice.NewGoroutineRunner(a.Logger)
		runner = a.goroutineRunner
	}

	calendarCfg := calendar.Config{
		ClientID:     cfg.Calendar.ClientID,
		ClientSecret: cfg.Calendar.ClientSecret,
		RefreshToken: cfg.Calendar.RefreshToken,
		CalendarID:   cfg.Calendar.CalendarID,
		TokenURL:     cfg.Calendar.TokenURL,
		APIBaseURL:   cfg.Calendar.APIBaseURL,
	}
	calendarClient := calendar.NewGoogleClient(ctx, calendarCfg, a.Logger)
	if !calendarCfg.Configured() {
		a.Logger.Info("Calendar credentials not set, video interviews will not be scheduled")
	}

	a.PipelineService = pipelineservice.NewPipelineService(
		pipelinedb.NewRepository(a.DB),
		pipelineservice.Collaborators{
			Rounds:        a.RoundService,
			Assessments:   a.AssessmentService,
			Notifications: sender,
			Calendar:      calendarClient,
			Offers:        a.OfferService,
			Runner:        runner,
			Events:        bus.Publisher,
		},
		pipelineservice.Config{
			CandidatePortalURL: cfg.Pipeline.CandidatePortalURL,
			MeetingBaseURL:     cfg.Pipeline.MeetingBaseURL,
			InterviewSlotRule:  cfg.Pipeline.InterviewSlotRule,
			InterviewLocation:  loc,
		},
		clk, a.Logger, a.Metrics, a.Tracer, a.DB,
	)
	a.AssessmentService.SetTransitioner(a.PipelineService)

	a.handlers = []routable{
		roundhandlers.NewRoundHandlers(a.RoundService, a.Logger),
		pipelinehandlers.NewPipelineHandlers(a.PipelineService, jobs, a.Logger),
		assessmenthandlers.NewAssessmentHandlers(a.AssessmentService, a.Logger),
		offerhandlers.NewOfferHandlers(a.OfferService, a.Logger),
	}
	return nil
}

// Run serves HTTP and consumes events until ctx is canceled, then shuts
// everything down.
func (a *App) Run(ctx context.Context) error {
	if err := a.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	if a.riverRunner != nil {
		if err := a.riverRunner.Start(ctx); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.NotificationRouter.Run(ctx); err != nil {
			errCh <- fmt.Errorf("notification router: %w", err)
		}
	}()

	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	servers := []*http.Server{srv}
	if addr := a.Config.Observability.MetricsAddress; addr != "" {
		servers = append(servers, &http.Server{
			Addr:              addr,
			Handler:           a.metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}
	for _, s := range servers {
		wg.Add(1)
		go func(s *http.Server) {
			defer wg.Done()
			a.Logger.Info("HTTP server listening", slog.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server %s: %w", s.Addr, err)
			}
		}(s)
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		a.Logger.Error("Component failed, shutting down", slog.Any("error", runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("HTTP server shutdown failed", slog.String("addr", s.Addr), slog.Any("error", err))
		}
	}
	a.stopAutomation(shutdownCtx)
	if err := a.NotificationRouter.Close(); err != nil {
		a.Logger.Error("Notification router close failed", slog.Any("error", err))
	}
	wg.Wait()
	return runErr
}

// stopAutomation stops accepting new automation and waits for in-flight work.
func (a *App) stopAutomation(ctx context.Context) {
	if a.goroutineRunner != nil {
		a.goroutineRunner.Close()
		a.goroutineRunner.Wait()
	}
	if a.riverRunner != nil {
		if err := a.riverRunner.Stop(ctx); err != nil {
			a.Logger.Error("River runner stop failed", slog.Any("error", err))
		}
	}
}

// Close releases the event bus and the database.
func (a *App) Close() {
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Logger.Error("Event bus close failed", slog.Any("error", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("Database close failed", slog.Any("error", err))
		}
	}
}
