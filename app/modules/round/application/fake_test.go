package roundservice

import (
	"context"
	"sort"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	rounddb "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Round Repo
// ------------------------

// FakeRoundRepo keeps rounds in memory. Func overrides take precedence.
type FakeRoundRepo struct {
	trace []string

	jobs   map[uuid.UUID]*rounddb.Job
	rounds map[uuid.UUID]roundtypes.JobRound

	GetJobFunc            func(ctx context.Context, db bun.IDB, jobID uuid.UUID) (*rounddb.Job, error)
	InsertFixedRoundsFunc func(ctx context.Context, db bun.IDB, jobID uuid.UUID) (int, error)
	ListByJobFunc         func(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]roundtypes.JobRound, error)
	GetByIDFunc           func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*roundtypes.JobRound, error)
	CreateFunc            func(ctx context.Context, db bun.IDB, round *roundtypes.JobRound) error
	DeleteFunc            func(ctx context.Context, db bun.IDB, roundID uuid.UUID) error
}

func NewFakeRoundRepo() *FakeRoundRepo {
	return &FakeRoundRepo{
		trace:  []string{},
		jobs:   map[uuid.UUID]*rounddb.Job{},
		rounds: map[uuid.UUID]roundtypes.JobRound{},
	}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundRepo) addJob(title string) uuid.UUID {
	id := uuid.New()
	f.jobs[id] = &rounddb.Job{ID: id, Title: title}
	return id
}

func (f *FakeRoundRepo) addRound(r roundtypes.JobRound) roundtypes.JobRound {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.rounds[r.ID] = r
	return r
}

// --- Repository Interface Implementation ---

func (f *FakeRoundRepo) GetJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) (*rounddb.Job, error) {
	f.record("GetJob")
	if f.GetJobFunc != nil {
		return f.GetJobFunc(ctx, db, jobID)
	}
	if j, ok := f.jobs[jobID]; ok {
		return j, nil
	}
	return nil, rounddb.ErrJobNotFound
}

func (f *FakeRoundRepo) CreateJob(ctx context.Context, db bun.IDB, job *rounddb.Job) error {
	f.record("CreateJob")
	f.jobs[job.ID] = job
	return nil
}

func (f *FakeRoundRepo) LockJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) error {
	f.record("LockJob")
	return nil
}

func (f *FakeRoundRepo) InsertFixedRounds(ctx context.Context, db bun.IDB, jobID uuid.UUID) (int, error) {
	f.record("InsertFixedRounds")
	if f.InsertFixedRoundsFunc != nil {
		return f.InsertFixedRoundsFunc(ctx, db, jobID)
	}
	have := map[roundtypes.FixedKey]bool{}
	for _, r := range f.rounds {
		if r.JobID == jobID && r.IsFixed {
			have[r.FixedKey] = true
		}
	}
	created := 0
	for _, k := range roundtypes.FixedKeys {
		if have[k] {
			continue
		}
		f.addRound(roundtypes.JobRound{JobID: jobID, Name: roundtypes.FixedName(k), Order: roundtypes.FixedOrder(k), IsFixed: true, FixedKey: k})
		created++
	}
	return created, nil
}

func (f *FakeRoundRepo) ListByJob(ctx context.Context, db bun.IDB, jobID uuid.UUID) ([]roundtypes.JobRound, error) {
	f.record("ListByJob")
	if f.ListByJobFunc != nil {
		return f.ListByJobFunc(ctx, db, jobID)
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

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*roundtypes.JobRound, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, roundID)
	}
	if r, ok := f.rounds[roundID]; ok {
		return &r, nil
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) GetFixed(ctx context.Context, db bun.IDB, jobID uuid.UUID, key roundtypes.FixedKey) (*roundtypes.JobRound, error) {
	f.record("GetFixed")
	for _, r := range f.rounds {
		if r.JobID == jobID && r.FixedKey == key {
			return &r, nil
		}
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *roundtypes.JobRound) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, round)
	}
	f.addRound(*round)
	return nil
}

func (f *FakeRoundRepo) Update(ctx context.Context, db bun.IDB, round *roundtypes.JobRound) error {
	f.record("Update")
	existing, ok := f.rounds[round.ID]
	if !ok {
		return rounddb.ErrNotFound
	}
	updated := *round
	updated.Order = existing.Order
	f.rounds[round.ID] = updated
	return nil
}

func (f *FakeRoundRepo) ApplyOrderChanges(ctx context.Context, db bun.IDB, changes []roundtypes.OrderChange) error {
	f.record("ApplyOrderChanges")
	for _, c := range changes {
		if r, ok := f.rounds[c.RoundID]; ok && !r.IsFixed {
			r.Order = c.Order
			f.rounds[c.RoundID] = r
		}
	}
	return nil
}

func (f *FakeRoundRepo) Delete(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, roundID)
	}
	r, ok := f.rounds[roundID]
	if !ok || r.IsFixed {
		return rounddb.ErrNotFound
	}
	delete(f.rounds, roundID)
	return nil
}

// --- Accessors for assertions ---

func (f *FakeRoundRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ rounddb.Repository = (*FakeRoundRepo)(nil)
