package assessmentservice

import (
	"context"
	"sync"
	"time"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	assessmentdb "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/infrastructure/repositories"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	rounddb "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepo is an in-memory assessmentdb.Repository.
type FakeRepo struct {
	mu          sync.Mutex
	assessments map[uuid.UUID]*assessmenttypes.Assessment

	// CreateFunc, when set, replaces Create.
	CreateFunc   func(ctx context.Context, db bun.IDB, a *assessmentdb.Assessment, questions []*assessmentdb.Question) (assessmenttypes.Assessment, error)
	CompleteFunc func(ctx context.Context, db bun.IDB, id uuid.UUID, results assessmenttypes.Results, at time.Time) error
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{assessments: map[uuid.UUID]*assessmenttypes.Assessment{}}
}

func (f *FakeRepo) Create(ctx context.Context, db bun.IDB, a *assessmentdb.Assessment, questions []*assessmentdb.Question) (assessmenttypes.Assessment, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, a, questions)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.assessments {
		if existing.ApplicationID == a.ApplicationID && existing.RoundID == a.RoundID && existing.Status != assessmenttypes.StatusExpired {
			return assessmenttypes.Assessment{}, assessmentdb.ErrOpenAssessmentExists
		}
	}
	out := assessmenttypes.Assessment{
		ID:            a.ID,
		ApplicationID: a.ApplicationID,
		RoundID:       a.RoundID,
		CandidateID:   a.CandidateID,
		JobID:         a.JobID,
		Status:        a.Status,
		Token:         a.Token,
		ExpiresAt:     a.ExpiresAt,
		PassThreshold: a.PassThreshold,
		CreatedAt:     a.CreatedAt,
	}
	for i, q := range questions {
		out.Questions = append(out.Questions, assessmenttypes.Question{
			ID: uuid.New(), Position: i, Text: q.Text, Type: q.Type, Options: q.Options, Points: q.Points,
		})
	}
	f.assessments[a.ID] = &out
	return clone(out), nil
}

func (f *FakeRepo) FindOpen(ctx context.Context, db bun.IDB, applicationID, roundID uuid.UUID) (*assessmenttypes.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assessments {
		if a.ApplicationID == applicationID && a.RoundID == roundID && a.Status != assessmenttypes.StatusExpired {
			c := clone(*a)
			return &c, nil
		}
	}
	return nil, nil
}

func (f *FakeRepo) Get(ctx context.Context, db bun.IDB, id uuid.UUID) (assessmenttypes.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assessments[id]
	if !ok {
		return assessmenttypes.Assessment{}, assessmentdb.ErrNotFound
	}
	return clone(*a), nil
}

func (f *FakeRepo) GetByToken(ctx context.Context, db bun.IDB, token string) (assessmenttypes.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assessments {
		if a.Token == token {
			return clone(*a), nil
		}
	}
	return assessmenttypes.Assessment{}, assessmentdb.ErrNotFound
}

func (f *FakeRepo) SetStatus(ctx context.Context, db bun.IDB, id uuid.UUID, from []assessmenttypes.Status, to assessmenttypes.Status, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assessments[id]
	if !ok {
		return assessmentdb.ErrNotFound
	}
	allowed := false
	for _, s := range from {
		if a.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return assessmentdb.ErrStatusConflict
	}
	a.Status = to
	switch to {
	case assessmenttypes.StatusInProgress:
		a.StartedAt = &at
	case assessmenttypes.StatusCompleted:
		a.CompletedAt = &at
	}
	return nil
}

func (f *FakeRepo) Complete(ctx context.Context, db bun.IDB, id uuid.UUID, results assessmenttypes.Results, at time.Time) error {
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, db, id, results, at)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assessments[id]
	if !ok {
		return assessmentdb.ErrNotFound
	}
	if a.Results != nil {
		return assessmentdb.ErrAlreadyFinalized
	}
	if a.Status == assessmenttypes.StatusExpired {
		return assessmentdb.ErrExpired
	}
	a.Results = &results
	a.Status = assessmenttypes.StatusCompleted
	if a.CompletedAt == nil {
		a.CompletedAt = &at
	}
	return nil
}

func (f *FakeRepo) UpsertResponse(ctx context.Context, db bun.IDB, assessmentID, questionID uuid.UUID, answer string, at time.Time) (assessmenttypes.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.assessments[assessmentID]
	for i := range a.Responses {
		if a.Responses[i].QuestionID == questionID {
			a.Responses[i].Answer = answer
			a.Responses[i].UpdatedAt = at
			return a.Responses[i], nil
		}
	}
	resp := assessmenttypes.Response{ID: uuid.New(), QuestionID: questionID, Answer: answer, UpdatedAt: at}
	a.Responses = append(a.Responses, resp)
	return resp, nil
}

func (f *FakeRepo) UpsertGrade(ctx context.Context, db bun.IDB, grade assessmenttypes.Grade) (assessmenttypes.Grade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assessments {
		for i := range a.Responses {
			r := &a.Responses[i]
			if r.ID != grade.ResponseID {
				continue
			}
			if len(r.Grades) > 0 {
				grade.ID = r.Grades[0].ID
			} else {
				grade.ID = uuid.New()
			}
			r.Grades = []assessmenttypes.Grade{grade}
			return grade, nil
		}
	}
	return assessmenttypes.Grade{}, assessmentdb.ErrNotFound
}

func (f *FakeRepo) UpsertVote(ctx context.Context, db bun.IDB, assessmentID uuid.UUID, vote assessmenttypes.Vote) (assessmenttypes.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.assessments[assessmentID]
	for i := range a.Votes {
		if a.Votes[i].ReviewerID == vote.ReviewerID {
			vote.ID = a.Votes[i].ID
			a.Votes[i] = vote
			return vote, nil
		}
	}
	vote.ID = uuid.New()
	a.Votes = append(a.Votes, vote)
	return vote, nil
}

// put stores a directly, for tests that need a particular state.
func (f *FakeRepo) put(a assessmenttypes.Assessment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assessments[a.ID] = &a
}

func (f *FakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.assessments)
}

func clone(a assessmenttypes.Assessment) assessmenttypes.Assessment {
	a.Questions = append([]assessmenttypes.Question(nil), a.Questions...)
	responses := make([]assessmenttypes.Response, len(a.Responses))
	for i, r := range a.Responses {
		r.Grades = append([]assessmenttypes.Grade(nil), r.Grades...)
		responses[i] = r
	}
	if a.Responses != nil {
		a.Responses = responses
	}
	a.Votes = append([]assessmenttypes.Vote(nil), a.Votes...)
	return a
}

var _ assessmentdb.Repository = (*FakeRepo)(nil)

// FakeRounds serves rounds by id.
type FakeRounds struct {
	rounds map[uuid.UUID]roundtypes.JobRound
	Err    error
}

func (f *FakeRounds) GetRound(ctx context.Context, roundID uuid.UUID) (roundtypes.JobRound, error) {
	if f.Err != nil {
		return roundtypes.JobRound{}, f.Err
	}
	r, ok := f.rounds[roundID]
	if !ok {
		return roundtypes.JobRound{}, rounddb.ErrNotFound
	}
	return r, nil
}

var _ RoundReader = (*FakeRounds)(nil)

// FakeTransitioner records follow-through calls.
type FakeTransitioner struct {
	mu       sync.Mutex
	Advances []pipelinetypes.AdvanceRequest
	Rejects  []uuid.UUID
	Err      error
}

func (f *FakeTransitioner) Advance(ctx context.Context, req pipelinetypes.AdvanceRequest) (pipelinetypes.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Advances = append(f.Advances, req)
	return pipelinetypes.Application{ID: req.ApplicationID}, f.Err
}

func (f *FakeTransitioner) Reject(ctx context.Context, applicationID, actorID uuid.UUID) (pipelinetypes.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rejects = append(f.Rejects, applicationID)
	return pipelinetypes.Application{ID: applicationID, Status: pipelinetypes.StatusRejected}, f.Err
}

var _ Transitioner = (*FakeTransitioner)(nil)
