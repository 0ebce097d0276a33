package pipelineservice

import (
	"context"
	"fmt"

	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
)

// dispatchStageEmail sends the round's entry email.
func (s *PipelineService) dispatchStageEmail(ctx context.Context, job automationJob) (pipelinetypes.Outcome, string, error) {
	templateID := job.round.EmailConfig.TemplateID
	err := s.notifications.SendTemplated(ctx, notificationtypes.TemplatedEmail{
		To:         job.app.CandidateEmail,
		TemplateID: templateID,
		ContextIDs: map[string]string{
			"application_id": job.app.ID.String(),
			"round_id":       job.round.ID.String(),
		},
		Variables: map[string]string{
			"candidate_name": job.app.CandidateName,
			"round_name":     job.round.Name,
			"stage":          string(job.app.Stage),
		},
	})
	if err != nil {
		return pipelinetypes.OutcomeFailed, "", fmt.Errorf("failed to send %s: %w", templateID, err)
	}
	return succeeded("sent " + templateID)
}
