package pipelinequeue

import (
	"time"

	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	"github.com/google/uuid"
)

// AutomationJob runs the automation of one committed transition.
type AutomationJob struct {
	ApplicationID uuid.UUID `json:"application_id"`
	RoundID       uuid.UUID `json:"round_id"`
	ActorID       uuid.UUID `json:"actor_id"`
	RequestedAt   time.Time `json:"requested_at"`
}

// Kind returns the job type identifier for River
func (AutomationJob) Kind() string { return "pipeline_automation" }

func jobFromTask(task pipelinetypes.AutomationTask) AutomationJob {
	return AutomationJob(task)
}

func (j AutomationJob) task() pipelinetypes.AutomationTask {
	return pipelinetypes.AutomationTask(j)
}

// JobInfo describes a queued automation job.
type JobInfo struct {
	ID          int64  `json:"id"`
	State       string `json:"state"`
	RoundID     string `json:"round_id"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
