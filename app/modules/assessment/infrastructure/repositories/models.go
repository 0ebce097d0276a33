package assessmentdb

import (
	"time"

	assessmenttypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/assessment/domain/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Assessment is the bun model of an assessments row.
type Assessment struct {
	bun.BaseModel `bun:"table:assessments,alias:a"`

	ID            uuid.UUID                `bun:"id,pk,type:uuid"`
	ApplicationID uuid.UUID                `bun:"application_id,type:uuid,notnull"`
	RoundID       uuid.UUID                `bun:"round_id,type:uuid,notnull"`
	CandidateID   uuid.UUID                `bun:"candidate_id,type:uuid,notnull"`
	JobID         uuid.UUID                `bun:"job_id,type:uuid,notnull"`
	Status        assessmenttypes.Status   `bun:"status,notnull"`
	Token         string                   `bun:"token,notnull,unique"`
	ExpiresAt     *time.Time               `bun:"expires_at"`
	PassThreshold float64                  `bun:"pass_threshold,notnull"`
	Results       *assessmenttypes.Results `bun:"results,type:jsonb"`
	StartedAt     *time.Time               `bun:"started_at"`
	CompletedAt   *time.Time               `bun:"completed_at"`
	CreatedAt     time.Time                `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Questions []*Question `bun:"rel:has-many,join:id=assessment_id"`
	Responses []*Response `bun:"rel:has-many,join:id=assessment_id"`
	Votes     []*Vote     `bun:"rel:has-many,join:id=assessment_id"`
}

// Question is a question snapshot owned by one assessment.
type Question struct {
	bun.BaseModel `bun:"table:assessment_questions,alias:aq"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	AssessmentID uuid.UUID `bun:"assessment_id,type:uuid,notnull"`
	Position     int       `bun:"position,notnull"`
	Text         string    `bun:"text,notnull"`
	Type         string    `bun:"type,notnull"`
	Options      []string  `bun:"options,array"`
	Points       float64   `bun:"points,notnull"`
}

// Response is a candidate answer.
type Response struct {
	bun.BaseModel `bun:"table:assessment_responses,alias:ar"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	AssessmentID uuid.UUID `bun:"assessment_id,type:uuid,notnull"`
	QuestionID   uuid.UUID `bun:"question_id,type:uuid,notnull"`
	Answer       string    `bun:"answer,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Grades []*Grade `bun:"rel:has-many,join:id=response_id"`
}

// Grade is the score for a response. There is at most one per response.
type Grade struct {
	bun.BaseModel `bun:"table:assessment_grades,alias:ag"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	ResponseID uuid.UUID `bun:"response_id,type:uuid,notnull"`
	ReviewerID uuid.UUID `bun:"reviewer_id,type:uuid,notnull"`
	Score      *float64  `bun:"score"`
	Feedback   string    `bun:"feedback"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Vote is one reviewer's decision.
type Vote struct {
	bun.BaseModel `bun:"table:assessment_votes,alias:av"`

	ID           uuid.UUID                    `bun:"id,pk,type:uuid"`
	AssessmentID uuid.UUID                    `bun:"assessment_id,type:uuid,notnull"`
	ReviewerID   uuid.UUID                    `bun:"reviewer_id,type:uuid,notnull"`
	Decision     assessmenttypes.VoteDecision `bun:"decision,notnull"`
	Comment      string                       `bun:"comment"`
	CreatedAt    time.Time                    `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (a *Assessment) toDomain() assessmenttypes.Assessment {
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
		Results:       a.Results,
		StartedAt:     a.StartedAt,
		CompletedAt:   a.CompletedAt,
		CreatedAt:     a.CreatedAt,
	}
	for _, q := range a.Questions {
		out.Questions = append(out.Questions, q.toDomain())
	}
	for _, r := range a.Responses {
		out.Responses = append(out.Responses, r.toDomain())
	}
	for _, v := range a.Votes {
		out.Votes = append(out.Votes, v.toDomain())
	}
	return out
}

func (q *Question) toDomain() assessmenttypes.Question {
	return assessmenttypes.Question{
		ID:       q.ID,
		Position: q.Position,
		Text:     q.Text,
		Type:     q.Type,
		Options:  q.Options,
		Points:   q.Points,
	}
}

func (r *Response) toDomain() assessmenttypes.Response {
	out := assessmenttypes.Response{
		ID:         r.ID,
		QuestionID: r.QuestionID,
		Answer:     r.Answer,
		UpdatedAt:  r.UpdatedAt,
	}
	for _, g := range r.Grades {
		out.Grades = append(out.Grades, g.toDomain())
	}
	return out
}

func (g *Grade) toDomain() assessmenttypes.Grade {
	return assessmenttypes.Grade{
		ID:         g.ID,
		ResponseID: g.ResponseID,
		ReviewerID: g.ReviewerID,
		Score:      g.Score,
		Feedback:   g.Feedback,
	}
}

func (v *Vote) toDomain() assessmenttypes.Vote {
	return assessmenttypes.Vote{
		ID:         v.ID,
		ReviewerID: v.ReviewerID,
		Decision:   v.Decision,
		Comment:    v.Comment,
	}
}
