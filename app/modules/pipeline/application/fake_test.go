package pipelineservice

import (
	"context"
	"sort"
	"sync"
	"time"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/modules/calendar"
	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	offertypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/offer/domain/types"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	pipelinedb "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	rounddb "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type pairKey struct{ app, round uuid.UUID }

// ------------------------
// Fake Pipeline Repo
// ------------------------

// FakePipelineRepo keeps applications and their history in memory.
type FakePipelineRepo struct {
	mu    sync.Mutex
	trace []string

	apps       map[uuid.UUID]pipelinetypes.Application
	progress   map[pairKey]pipelinetypes.RoundProgress
	interviews []pipelinetypes.Interview
	runs       []pipelinetypes.AutomationRun

	UpsertProgressFunc  func(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID, actorID *uuid.UUID, at time.Time) (pipelinetypes.RoundProgress, error)
	CreateInterviewFunc func(ctx context.Context, db bun.IDB, interview pipelinetypes.Interview) (pipelinetypes.Interview, error)
}

func NewFakePipelineRepo() *FakePipelineRepo {
	return &FakePipelineRepo{
		apps:     map[uuid.UUID]pipelinetypes.Application{},
		progress: map[pairKey]pipelinetypes.RoundProgress{},
	}
}

func (f *FakePipelineRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePipelineRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakePipelineRepo) addApplication(jobID uuid.UUID, name string) pipelinetypes.Application {
	f.mu.Lock()
	defer f.mu.Unlock()
	app := pipelinetypes.Application{
		ID:             uuid.New(),
		JobID:          jobID,
		CandidateID:    uuid.New(),
		CandidateName:  name,
		CandidateEmail: name + "@example.com",
		Stage:          roundtypes.StageNewApplication,
		Status:         pipelinetypes.StatusActive,
	}
	f.apps[app.ID] = app
	return app
}

func (f *FakePipelineRepo) progressRows(applicationID uuid.UUID) []pipelinetypes.RoundProgress {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []pipelinetypes.RoundProgress
	for k, p := range f.progress {
		if k.app == applicationID {
			out = append(out, p)
		}
	}
	return out
}

func (f *FakePipelineRepo) allInterviews() []pipelinetypes.Interview {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pipelinetypes.Interview(nil), f.interviews...)
}

// --- Repository Interface Implementation ---

func (f *FakePipelineRepo) CreateApplication(ctx context.Context, db bun.IDB, app *pipelinedb.Application) (pipelinetypes.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateApplication")
	out := pipelinetypes.Application{
		ID:             app.ID,
		JobID:          app.JobID,
		CandidateID:    app.CandidateID,
		CandidateName:  app.CandidateName,
		CandidateEmail: app.CandidateEmail,
		Stage:          app.Stage,
		Status:         app.Status,
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
	}
	f.apps[out.ID] = out
	return out, nil
}

func (f *FakePipelineRepo) GetApplication(ctx context.Context, db bun.IDB, applicationID uuid.UUID) (pipelinetypes.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetApplication")
	app, ok := f.apps[applicationID]
	if !ok {
		return pipelinetypes.Application{}, pipelinedb.ErrApplicationNotFound
	}
	return app, nil
}

func (f *FakePipelineRepo) ListApplicationsByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]pipelinetypes.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListApplicationsByJob")
	var out []pipelinetypes.Application
	for _, a := range f.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CandidateName < out[j].CandidateName })
	return out, nil
}

func (f *FakePipelineRepo) UpdateApplicationStage(ctx context.Context, db bun.IDB, applicationID uuid.UUID, update pipelinedb.StageUpdate) (pipelinetypes.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateApplicationStage")
	app, ok := f.apps[applicationID]
	if !ok {
		return pipelinetypes.Application{}, pipelinedb.ErrApplicationNotFound
	}
	roundID := update.CurrentRoundID
	app.Stage = update.Stage
	app.Status = update.Status
	app.CurrentRoundID = &roundID
	app.UpdatedAt = update.At
	f.apps[applicationID] = app
	return app, nil
}

func (f *FakePipelineRepo) CountByStage(ctx context.Context, db bun.IDB, jobID uuid.UUID) (map[roundtypes.Stage]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CountByStage")
	out := map[roundtypes.Stage]int{}
	for _, a := range f.apps {
		if a.JobID == jobID {
			out[a.Stage]++
		}
	}
	return out, nil
}

func (f *FakePipelineRepo) UpsertProgress(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID, actorID *uuid.UUID, at time.Time) (pipelinetypes.RoundProgress, error) {
	if f.UpsertProgressFunc != nil {
		return f.UpsertProgressFunc(ctx, db, applicationID, roundID, actorID, at)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpsertProgress")
	key := pairKey{applicationID, roundID}
	p, ok := f.progress[key]
	if !ok {
		p = pipelinetypes.RoundProgress{ID: uuid.New(), ApplicationID: applicationID, RoundID: roundID, EnteredAt: at}
	}
	p.EnteredBy = actorID
	p.UpdatedAt = at
	f.progress[key] = p
	return p, nil
}

func (f *FakePipelineRepo) ListProgress(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]pipelinetypes.RoundProgress, error) {
	return f.progressRows(applicationID), nil
}

func (f *FakePipelineRepo) ListProgressByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]pipelinetypes.RoundProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []pipelinetypes.RoundProgress
	for k, p := range f.progress {
		if f.apps[k.app].JobID == jobID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakePipelineRepo) LinkInterview(ctx context.Context, db bun.IDB, applicationID, roundID, interviewID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LinkInterview")
	key := pairKey{applicationID, roundID}
	p, ok := f.progress[key]
	if !ok {
		p = pipelinetypes.RoundProgress{ID: uuid.New(), ApplicationID: applicationID, RoundID: roundID, EnteredAt: at}
	}
	p.InterviewID = &interviewID
	p.UpdatedAt = at
	f.progress[key] = p
	return nil
}

func (f *FakePipelineRepo) FindOpenInterview(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID) (*pipelinetypes.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FindOpenInterview")
	for _, i := range f.interviews {
		if i.ApplicationID == applicationID && i.RoundID == roundID && i.Status.IsOpen() {
			found := i
			return &found, nil
		}
	}
	return nil, nil
}

func (f *FakePipelineRepo) CreateInterview(ctx context.Context, db bun.IDB, interview pipelinetypes.Interview) (pipelinetypes.Interview, error) {
	if f.CreateInterviewFunc != nil {
		return f.CreateInterviewFunc(ctx, db, interview)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateInterview")
	for _, i := range f.interviews {
		if i.ApplicationID == interview.ApplicationID && i.RoundID == interview.RoundID && i.Status.IsOpen() {
			return pipelinetypes.Interview{}, pipelinedb.ErrOpenInterviewExists
		}
	}
	f.interviews = append(f.interviews, interview)
	return interview, nil
}

func (f *FakePipelineRepo) RecordAutomationRun(ctx context.Context, db bun.IDB, run pipelinetypes.AutomationRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RecordAutomationRun")
	f.runs = append(f.runs, run)
	return nil
}

func (f *FakePipelineRepo) ListAutomationRuns(ctx context.Context, db bun.IDB, applicationID uuid.UUID) ([]pipelinetypes.AutomationRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []pipelinetypes.AutomationRun
	for _, r := range f.runs {
		if r.ApplicationID == applicationID {
			out = append(out, r)
		}
	}
	return out, nil
}

var _ pipelinedb.Repository = (*FakePipelineRepo)(nil)

// ------------------------
// Fake Rounds
// ------------------------

// FakeRounds serves a fixed set of jobs and rounds.
type FakeRounds struct {
	jobs   map[uuid.UUID]roundtypes.Job
	rounds map[uuid.UUID]roundtypes.JobRound
}

func NewFakeRounds() *FakeRounds {
	return &FakeRounds{jobs: map[uuid.UUID]roundtypes.Job{}, rounds: map[uuid.UUID]roundtypes.JobRound{}}
}

// addJob creates a job with its four anchors.
func (f *FakeRounds) addJob(title, location string) uuid.UUID {
	id := uuid.New()
	f.jobs[id] = roundtypes.Job{ID: id, Title: title, Location: location}
	for _, key := range roundtypes.FixedKeys {
		f.add(roundtypes.JobRound{JobID: id, Name: roundtypes.FixedName(key), IsFixed: true, FixedKey: key, Order: roundtypes.FixedOrder(key)})
	}
	return id
}

func (f *FakeRounds) add(r roundtypes.JobRound) roundtypes.JobRound {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.rounds[r.ID] = r
	return r
}

func (f *FakeRounds) fixed(jobID uuid.UUID, key roundtypes.FixedKey) roundtypes.JobRound {
	for _, r := range f.rounds {
		if r.JobID == jobID && r.FixedKey == key {
			return r
		}
	}
	return roundtypes.JobRound{}
}

func (f *FakeRounds) update(r roundtypes.JobRound) {
	f.rounds[r.ID] = r
}

func (f *FakeRounds) ResolveRound(ctx context.Context, ref roundtypes.RoundRef) (roundtypes.JobRound, error) {
	if id, ok := ref.ID(); ok {
		r, found := f.rounds[id]
		if !found {
			return roundtypes.JobRound{}, rounddb.ErrNotFound
		}
		return r, nil
	}
	if jobID, key, ok := ref.FixedKey(); ok {
		if r := f.fixed(jobID, key); r.ID != uuid.Nil {
			return r, nil
		}
	}
	return roundtypes.JobRound{}, rounddb.ErrNotFound
}

func (f *FakeRounds) ListRounds(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error) {
	if _, ok := f.jobs[jobID]; !ok {
		return nil, rounddb.ErrJobNotFound
	}
	var out []roundtypes.JobRound
	for _, r := range f.rounds {
		if r.JobID == jobID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *FakeRounds) GetJob(ctx context.Context, jobID uuid.UUID) (roundtypes.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return roundtypes.Job{}, rounddb.ErrJobNotFound
	}
	return job, nil
}

var _ RoundResolver = (*FakeRounds)(nil)

// ------------------------
// Fake Collaborators
// ------------------------

// FakeInviter hands out one assessment per pair.
type FakeInviter struct {
	mu      sync.Mutex
	byPair  map[pairKey]assessmenttypes.InviteResult
	Invites []assessmenttypes.Invite
	Err     error
}

func NewFakeInviter() *FakeInviter {
	return &FakeInviter{byPair: map[pairKey]assessmenttypes.InviteResult{}}
}

func (f *FakeInviter) CreateInvitation(ctx context.Context, invite assessmenttypes.Invite) (assessmenttypes.InviteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return assessmenttypes.InviteResult{}, f.Err
	}
	f.Invites = append(f.Invites, invite)
	key := pairKey{invite.ApplicationID, invite.RoundID}
	if existing, ok := f.byPair[key]; ok {
		existing.Created = false
		return existing, nil
	}
	res := assessmenttypes.InviteResult{AssessmentID: uuid.New(), Token: "tok-" + uuid.NewString(), ExpiresAt: invite.ExpiresAt, Created: true}
	f.byPair[key] = res
	return res, nil
}

func (f *FakeInviter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byPair)
}

// FakeNotifier records every email and fails with Err when set.
type FakeNotifier struct {
	mu          sync.Mutex
	Templated   []notificationtypes.TemplatedEmail
	Invitations []notificationtypes.InterviewInvitation
	Err         error
}

func (f *FakeNotifier) SendTemplated(ctx context.Context, email notificationtypes.TemplatedEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Templated = append(f.Templated, email)
	return nil
}

func (f *FakeNotifier) SendInterviewInvitation(ctx context.Context, inv notificationtypes.InterviewInvitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Invitations = append(f.Invitations, inv)
	return nil
}

// FakeCalendar returns Link or Err.
type FakeCalendar struct {
	Link   string
	Err    error
	Events []calendar.Event
}

func (f *FakeCalendar) CreateVideoInterviewEvent(ctx context.Context, ev calendar.Event) (string, error) {
	f.Events = append(f.Events, ev)
	return f.Link, f.Err
}

// FakeOffers records created and sent offers.
type FakeOffers struct {
	Created   []offertypes.CreateOfferParams
	Sent      []uuid.UUID
	CreateErr error
}

func (f *FakeOffers) CreateOffer(ctx context.Context, params offertypes.CreateOfferParams, actorID uuid.UUID) (offertypes.Offer, error) {
	if f.CreateErr != nil {
		return offertypes.Offer{}, f.CreateErr
	}
	f.Created = append(f.Created, params)
	return offertypes.Offer{ID: uuid.New(), ApplicationID: params.ApplicationID, Status: offertypes.StatusDraft}, nil
}

func (f *FakeOffers) SendOffer(ctx context.Context, offerID uuid.UUID) (offertypes.Offer, error) {
	f.Sent = append(f.Sent, offerID)
	return offertypes.Offer{ID: offerID, Status: offertypes.StatusSent}, nil
}
