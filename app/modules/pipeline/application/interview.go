package pipelineservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Black-And-White-Club/talent-pipeline/app/modules/calendar"
	notificationtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/notification/domain/types"
	pipelinetypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/domain/types"
	pipelinedb "github.com/Black-And-White-Club/talent-pipeline/app/modules/pipeline/infrastructure/repositories"
	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrInterviewNotConfigured is returned when a round cannot be auto-scheduled.
var ErrInterviewNotConfigured = fmt.Errorf("round is not configured for interview scheduling: %w", apperrors.ErrInvalidState)

const defaultMeetingBaseURL = "https://meet.google.com"

func (s *PipelineService) dispatchInterview(ctx context.Context, job automationJob) (pipelinetypes.Outcome, string, error) {
	interview, created, err := s.scheduleInterview(ctx, job.app, job.round, job.now)
	if errors.Is(err, ErrInterviewNotConfigured) {
		// Only the ScheduleInterview entry point reports misconfiguration.
		return skipped(err.Error())
	}
	if err != nil {
		return pipelinetypes.OutcomeFailed, "", err
	}
	if !created {
		return skipped("interview " + interview.ID.String() + " already open")
	}
	return succeeded("interview " + interview.ID.String() + " at " + interview.ScheduledAt.Format(time.RFC3339))
}

// ScheduleInterview books the round's interview for the application. Unlike
// automatic scheduling it fails when the round is not set up for it.
func (s *PipelineService) ScheduleInterview(ctx context.Context, applicationID, roundID uuid.UUID) (pipelinetypes.Interview, error) {
	return call(s, ctx, "ScheduleInterview", applicationID.String(), func(ctx context.Context) (results.OperationResult[pipelinetypes.Interview, error], error) {
		fail := results.FailureResult[pipelinetypes.Interview, error]

		app, round, err := s.loadPair(ctx, applicationID, roundID)
		if err == nil {
			var interview pipelinetypes.Interview
			interview, _, err = s.scheduleInterview(ctx, app, round, s.clock.NowUTC())
			if err == nil {
				return results.SuccessResult[pipelinetypes.Interview, error](interview), nil
			}
		}
		if apperrors.IsDomain(err) {
			return fail(err), nil
		}
		return results.OperationResult[pipelinetypes.Interview, error]{}, err
	})
}

func interviewConfigured(round roundtypes.JobRound) bool {
	cfg := round.InterviewConfig
	return !round.IsFixed &&
		round.Kind == roundtypes.KindInterview &&
		cfg != nil && cfg.Enabled && cfg.AutoSchedule && cfg.DefaultDurationMinutes > 0
}

// scheduleInterview returns the pair's open interview, creating it first if
// there is none. created reports whether this call created it.
func (s *PipelineService) scheduleInterview(ctx context.Context, app pipelinetypes.Application, round roundtypes.JobRound, now time.Time) (pipelinetypes.Interview, bool, error) {
	if !interviewConfigured(round) {
		return pipelinetypes.Interview{}, false, ErrInterviewNotConfigured
	}
	cfg := round.InterviewConfig

	existing, err := s.repo.FindOpenInterview(ctx, nil, app.ID, round.ID)
	if err != nil {
		return pipelinetypes.Interview{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	format := cfg.Format
	if format == "" {
		format = roundtypes.FormatVideo
	}
	interview := pipelinetypes.Interview{
		ID:              uuid.New(),
		ApplicationID:   app.ID,
		RoundID:         round.ID,
		ScheduledAt:     s.slots.Next(now),
		DurationMinutes: cfg.DefaultDurationMinutes,
		Format:          format,
		Location:        cfg.Location,
		Status:          pipelinetypes.InterviewScheduled,
		IsAutoScheduled: true,
		CreatedAt:       now,
	}
	if format.RequiresMeetingLink() {
		link := s.meetingLink(ctx, app, round, interview)
		interview.MeetingLink = &link
	}

	var saved pipelinetypes.Interview
	err = s.inTx(ctx, func(ctx context.Context, db bun.IDB) error {
		created, err := s.repo.CreateInterview(ctx, db, interview)
		if err != nil {
			return err
		}
		saved = created
		return s.repo.LinkInterview(ctx, db, app.ID, round.ID, created.ID, now)
	})
	if errors.Is(err, pipelinedb.ErrOpenInterviewExists) {
		// A concurrent transition booked it first.
		winner, findErr := s.repo.FindOpenInterview(ctx, nil, app.ID, round.ID)
		if findErr == nil && winner != nil {
			return *winner, false, nil
		}
		return pipelinetypes.Interview{}, false, err
	}
	if err != nil {
		return pipelinetypes.Interview{}, false, err
	}

	s.sendInterviewInvitation(ctx, app, round, saved)
	return saved, true, nil
}

// meetingLink asks the calendar for a video meeting and falls back to a
// locally generated meeting code.
func (s *PipelineService) meetingLink(ctx context.Context, app pipelinetypes.Application, round roundtypes.JobRound, interview pipelinetypes.Interview) string {
	if s.calendar != nil {
		link, err := s.calendar.CreateVideoInterviewEvent(ctx, calendar.Event{
			Summary:   fmt.Sprintf("%s: %s", round.Name, app.CandidateName),
			Start:     interview.ScheduledAt,
			End:       interview.ScheduledAt.Add(time.Duration(interview.DurationMinutes) * time.Minute),
			Attendees: []string{app.CandidateEmail},
		})
		if err == nil && link != "" {
			return link
		}
		if err != nil && !errors.Is(err, calendar.ErrNotConfigured) {
			s.logger.WarnContext(ctx, "Calendar unavailable, using local meeting link",
				slog.String("application_id", app.ID.String()),
				slog.String("round_id", round.ID.String()),
				slog.Any("error", err),
			)
		}
	}

	base := s.cfg.MeetingBaseURL
	if base == "" {
		base = defaultMeetingBaseURL
	}
	return base + "/" + meetingCode(uuid.New())
}

// meetingCode renders random bytes as a xxx-xxxx-xxx code.
func meetingCode(seed uuid.UUID) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	for i := 0; i < 10; i++ {
		if i == 3 || i == 7 {
			b.WriteByte('-')
		}
		b.WriteByte(letters[int(seed[i])%len(letters)])
	}
	return b.String()
}

func (s *PipelineService) sendInterviewInvitation(ctx context.Context, app pipelinetypes.Application, round roundtypes.JobRound, interview pipelinetypes.Interview) {
	inv := notificationtypes.InterviewInvitation{
		To:              app.CandidateEmail,
		CandidateName:   app.CandidateName,
		InterviewID:     interview.ID,
		ApplicationID:   app.ID,
		ScheduledAt:     interview.ScheduledAt,
		DurationMinutes: interview.DurationMinutes,
		Format:          string(interview.Format),
		Location:        interview.Location,
	}
	if interview.MeetingLink != nil {
		inv.MeetingLink = *interview.MeetingLink
	}
	if cfg := round.InterviewConfig; cfg != nil {
		inv.TemplateID = cfg.EmailTemplateID
	}

	if err := s.notifications.SendInterviewInvitation(ctx, inv); err != nil {
		s.logger.WarnContext(ctx, "Failed to send interview invitation",
			slog.String("application_id", app.ID.String()),
			slog.String("round_id", round.ID.String()),
			slog.String("interview_id", interview.ID.String()),
			slog.Any("error", err),
		)
	}
}
