package roundservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
	rounddb "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/talent-pipeline/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type roundsResult = results.OperationResult[[]roundtypes.JobRound, error]
type roundResult = results.OperationResult[roundtypes.JobRound, error]

// EnsureFixedRounds creates any missing anchor rounds for a job.
func (s *RoundService) EnsureFixedRounds(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error) {
	return run(s, ctx, "EnsureFixedRounds", jobID.String(), func(ctx context.Context, db bun.IDB) (roundsResult, error) {
		return s.ensureFixedRoundsLogic(ctx, db, jobID)
	})
}

// ListRounds returns a job's rounds in ascending order, creating the anchors on first use.
func (s *RoundService) ListRounds(ctx context.Context, jobID uuid.UUID) ([]roundtypes.JobRound, error) {
	return run(s, ctx, "ListRounds", jobID.String(), func(ctx context.Context, db bun.IDB) (roundsResult, error) {
		return s.ensureFixedRoundsLogic(ctx, db, jobID)
	})
}

func (s *RoundService) ensureFixedRoundsLogic(ctx context.Context, db bun.IDB, jobID uuid.UUID) (roundsResult, error) {
	if _, err := s.repo.GetJob(ctx, db, jobID); err != nil {
		if errors.Is(err, rounddb.ErrJobNotFound) {
			return results.FailureResult[[]roundtypes.JobRound, error](err), nil
		}
		return roundsResult{}, fmt.Errorf("failed to load job: %w", err)
	}

	created, err := s.repo.InsertFixedRounds(ctx, db, jobID)
	if err != nil {
		return roundsResult{}, err
	}
	if created > 0 {
		s.logger.InfoContext(ctx, "Created fixed rounds",
			slog.String("job_id", jobID.String()),
			slog.Int("created", created),
		)
	}

	rounds, err := s.repo.ListByJob(ctx, db, jobID)
	if err != nil {
		return roundsResult{}, err
	}
	return results.SuccessResult[[]roundtypes.JobRound, error](rounds), nil
}

// GetRound retrieves a round by id.
func (s *RoundService) GetRound(ctx context.Context, roundID uuid.UUID) (roundtypes.JobRound, error) {
	return s.ResolveRound(ctx, roundtypes.RefByID(roundID))
}

// ResolveRound looks a round up by id, or by the job's fixed key. Resolving a
// fixed key ensures the anchors exist first so clients can address them
// before ever listing the job's rounds.
func (s *RoundService) ResolveRound(ctx context.Context, ref roundtypes.RoundRef) (roundtypes.JobRound, error) {
	return run(s, ctx, "ResolveRound", ref.String(), func(ctx context.Context, db bun.IDB) (roundResult, error) {
		if id, ok := ref.ID(); ok {
			return s.getRoundLogic(ctx, db, id)
		}

		jobID, key, ok := ref.FixedKey()
		if !ok || !key.IsValid() {
			return results.FailureResult[roundtypes.JobRound, error](rounddb.ErrNotFound), nil
		}

		ensured, err := s.ensureFixedRoundsLogic(ctx, db, jobID)
		if err != nil || ensured.IsFailure() {
			return roundResult{Failure: ensured.Failure}, err
		}
		for _, r := range *ensured.Success {
			if r.IsFixed && r.FixedKey == key {
				return results.SuccessResult[roundtypes.JobRound, error](r), nil
			}
		}
		return results.FailureResult[roundtypes.JobRound, error](rounddb.ErrNotFound), nil
	})
}

func (s *RoundService) getRoundLogic(ctx context.Context, db bun.IDB, roundID uuid.UUID) (roundResult, error) {
	round, err := s.repo.GetByID(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return results.FailureResult[roundtypes.JobRound, error](err), nil
		}
		return roundResult{}, fmt.Errorf("failed to get round: %w", err)
	}
	return results.SuccessResult[roundtypes.JobRound, error](*round), nil
}

// CreateRound inserts a custom round at the requested position, or last when
// no position is given, and shifts the rounds after it.
func (s *RoundService) CreateRound(ctx context.Context, input roundtypes.CreateRoundInput) (roundtypes.JobRound, error) {
	return run(s, ctx, "CreateRound", input.JobID.String(), func(ctx context.Context, db bun.IDB) (roundResult, error) {
		if errs := s.validator.ValidateCreateRoundInput(input); len(errs) > 0 {
			return results.FailureResult[roundtypes.JobRound, error](validationError(errs)), nil
		}

		if err := s.repo.LockJob(ctx, db, input.JobID); err != nil {
			return roundResult{}, err
		}
		ensured, err := s.ensureFixedRoundsLogic(ctx, db, input.JobID)
		if err != nil || ensured.IsFailure() {
			return roundResult{Failure: ensured.Failure}, err
		}
		existing := *ensured.Success

		if countCustom(existing) >= roundtypes.CustomCapacity(existing) {
			return results.FailureResult[roundtypes.JobRound, error](ErrNoCapacity), nil
		}
		if failure := s.checkNextRound(ctx, db, input.JobID, input.AssessmentConfig); failure != nil {
			return results.FailureResult[roundtypes.JobRound, error](failure), nil
		}

		round := roundtypes.JobRound{
			ID:               uuid.New(),
			JobID:            input.JobID,
			Name:             input.Name,
			Kind:             input.Kind,
			AssignedRoleID:   input.AssignedRoleID,
			SyncPermissions:  input.SyncPermissions,
			EmailConfig:      input.EmailConfig,
			AssessmentConfig: input.AssessmentConfig,
			InterviewConfig:  input.InterviewConfig,
		}

		requested := roundtypes.AppendOrder(existing)
		if input.Order != nil {
			requested = *input.Order
		}

		changes, own := splitChanges(roundtypes.PlaceRound(existing, round, requested), round.ID)
		round.Order = own

		if err := s.repo.Create(ctx, db, &round); err != nil {
			return roundResult{}, err
		}
		if err := s.repo.ApplyOrderChanges(ctx, db, changes); err != nil {
			return roundResult{}, err
		}

		s.logger.InfoContext(ctx, "Round created",
			slog.String("job_id", round.JobID.String()),
			slog.String("round_id", round.ID.String()),
			slog.Int("order", round.Order),
			slog.Int("shifted", len(changes)),
		)
		return results.SuccessResult[roundtypes.JobRound, error](round), nil
	})
}

// UpdateRound applies a partial update. A new order moves a custom round
// through the same placement as creation.
func (s *RoundService) UpdateRound(ctx context.Context, roundID uuid.UUID, input roundtypes.UpdateRoundInput) (roundtypes.JobRound, error) {
	return run(s, ctx, "UpdateRound", roundID.String(), func(ctx context.Context, db bun.IDB) (roundResult, error) {
		current, err := s.getRoundLogic(ctx, db, roundID)
		if err != nil || current.IsFailure() {
			return current, err
		}
		round := *current.Success

		if input.Order != nil && round.IsFixed {
			return results.FailureResult[roundtypes.JobRound, error](ErrFixedRound), nil
		}
		if errs := s.validator.ValidateUpdateRoundInput(round, input); len(errs) > 0 {
			return results.FailureResult[roundtypes.JobRound, error](validationError(errs)), nil
		}
		if failure := s.checkNextRound(ctx, db, round.JobID, input.AssessmentConfig); failure != nil {
			return results.FailureResult[roundtypes.JobRound, error](failure), nil
		}

		if err := s.repo.LockJob(ctx, db, round.JobID); err != nil {
			return roundResult{}, err
		}

		applyPatch(&round, input)
		if err := s.repo.Update(ctx, db, &round); err != nil {
			return roundResult{}, err
		}

		if input.Order != nil {
			rounds, err := s.repo.ListByJob(ctx, db, round.JobID)
			if err != nil {
				return roundResult{}, err
			}
			changes := roundtypes.PlaceRound(rounds, round, *input.Order)
			if err := s.repo.ApplyOrderChanges(ctx, db, changes); err != nil {
				return roundResult{}, err
			}
			for _, c := range changes {
				if c.RoundID == round.ID {
					round.Order = c.Order
				}
			}
		}

		return results.SuccessResult[roundtypes.JobRound, error](round), nil
	})
}

// DeleteRound removes a custom round and closes the gap it leaves.
func (s *RoundService) DeleteRound(ctx context.Context, roundID uuid.UUID) error {
	_, err := run(s, ctx, "DeleteRound", roundID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		current, err := s.getRoundLogic(ctx, db, roundID)
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		if current.IsFailure() {
			return results.FailureResult[bool, error](*current.Failure), nil
		}
		round := *current.Success
		if round.IsFixed {
			return results.FailureResult[bool, error](ErrFixedRound), nil
		}

		if err := s.repo.LockJob(ctx, db, round.JobID); err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		if err := s.repo.Delete(ctx, db, round.ID); err != nil {
			return results.OperationResult[bool, error]{}, err
		}

		remaining, err := s.repo.ListByJob(ctx, db, round.JobID)
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		if err := s.repo.ApplyOrderChanges(ctx, db, roundtypes.CompactOrders(remaining)); err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
	return err
}

// checkNextRound verifies an assessment's follow-up round belongs to the same job.
func (s *RoundService) checkNextRound(ctx context.Context, db bun.IDB, jobID uuid.UUID, cfg *roundtypes.AssessmentConfig) error {
	if cfg == nil || cfg.NextRoundID == nil {
		return nil
	}
	next, err := s.repo.GetByID(ctx, db, *cfg.NextRoundID)
	if err != nil || next.JobID != jobID {
		return validationError([]string{"next round must be a round of the same job"})
	}
	return nil
}

func applyPatch(round *roundtypes.JobRound, in roundtypes.UpdateRoundInput) {
	if in.Name != nil {
		round.Name = *in.Name
	}
	if in.AssignedRoleID != nil {
		round.AssignedRoleID = in.AssignedRoleID
	}
	if in.SyncPermissions != nil {
		round.SyncPermissions = *in.SyncPermissions
	}
	if in.EmailConfig != nil {
		round.EmailConfig = *in.EmailConfig
	}
	if in.OfferConfig != nil {
		round.OfferConfig = *in.OfferConfig
	}
	if in.AssessmentConfig != nil {
		round.AssessmentConfig = in.AssessmentConfig
	}
	if in.InterviewConfig != nil {
		round.InterviewConfig = in.InterviewConfig
	}
}

func countCustom(rounds []roundtypes.JobRound) int {
	n := 0
	for _, r := range rounds {
		if !r.IsFixed {
			n++
		}
	}
	return n
}

// splitChanges separates the placed round's own order from the shifts of its neighbours.
func splitChanges(changes []roundtypes.OrderChange, id uuid.UUID) ([]roundtypes.OrderChange, int) {
	var own int
	others := make([]roundtypes.OrderChange, 0, len(changes))
	for _, c := range changes {
		if c.RoundID == id {
			own = c.Order
			continue
		}
		others = append(others, c)
	}
	return others, own
}
