package testutils

import (
	"time"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// TestDataGenerator builds realistic jobs and candidates for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a generator, seeded from the clock unless a seed is given.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Seed returns the seed, for reproducing a failing run.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// JobTitle returns a job posting title.
func (g *TestDataGenerator) JobTitle() string {
	return g.faker.JobTitle() + " Engineer"
}

// Location returns a city for a job posting.
func (g *TestDataGenerator) Location() string {
	return g.faker.City()
}

// Application returns a new application for jobID.
func (g *TestDataGenerator) Application(jobID uuid.UUID) pipelinetypes.NewApplicationInput {
	return pipelinetypes.NewApplicationInput{
		JobID:          jobID,
		CandidateID:    uuid.New(),
		CandidateName:  g.faker.Name(),
		CandidateEmail: g.faker.Email(),
	}
}

// Questions returns n question templates worth points each.
func (g *TestDataGenerator) Questions(n int, points float64) []roundtypes.QuestionTemplate {
	out := make([]roundtypes.QuestionTemplate, n)
	for i := range out {
		out[i] = roundtypes.QuestionTemplate{
			Text:   "Explain " + g.faker.Word() + " in your own words.",
			Type:   "TEXT",
			Points: points,
		}
	}
	return out
}

// Answer returns free-text candidate input.
func (g *TestDataGenerator) Answer() string {
	return g.faker.Word() + " " + g.faker.Word() + " " + g.faker.Word()
}
