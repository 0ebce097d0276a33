package assessmenttypes

import (
	"math"

	roundtypes "github.com/Black-And-White-Club/talent-pipeline/app/modules/round/domain/types"
)

// Tally counts the approving and rejecting votes.
func Tally(votes []Vote) (approves, rejects int) {
	for _, v := range votes {
		switch v.Decision {
		case VoteApprove:
			approves++
		case VoteReject:
			rejects++
		}
	}
	return approves, rejects
}

// EvaluateVotes applies rule to votes. An unknown rule falls back to MAJORITY
// and a non-positive minApprovals to 1.
func EvaluateVotes(votes []Vote, rule roundtypes.VotingRule, minApprovals int) Results {
	approves, rejects := Tally(votes)
	count := len(votes)

	var passed bool
	switch rule {
	case roundtypes.VotingUnanimous:
		passed = count > 0 && rejects == 0
	case roundtypes.VotingMinApprovals:
		if minApprovals <= 0 {
			minApprovals = 1
		}
		passed = approves >= minApprovals
	default:
		passed = approves > rejects
	}

	return Results{
		Mode:      roundtypes.EvaluationVoting,
		Passed:    passed,
		VoteCount: &count,
		Approves:  &approves,
		Rejects:   &rejects,
	}
}

// AverageScore is the mean of every non-nil grade score across responses,
// rounded to two decimals. No scored grades yields 0.
func AverageScore(responses []Response) float64 {
	var sum float64
	var n int
	for _, r := range responses {
		for _, g := range r.Grades {
			if g.Score == nil {
				continue
			}
			sum += *g.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}

// EvaluateGrades passes when the average score reaches threshold.
func EvaluateGrades(responses []Response, threshold float64) Results {
	score := AverageScore(responses)
	return Results{
		Mode:   roundtypes.EvaluationGrading,
		Passed: score >= threshold,
		Score:  &score,
	}
}

// Evaluate produces the verdict for a under cfg. A nil cfg grades against
// fallbackThreshold.
func Evaluate(a Assessment, cfg *roundtypes.AssessmentConfig, fallbackThreshold float64) Results {
	if cfg != nil && cfg.EvaluationMode == roundtypes.EvaluationVoting {
		return EvaluateVotes(a.Votes, cfg.VotingRule, cfg.MinApprovalsCount)
	}
	return EvaluateGrades(a.Responses, PassThreshold(a, cfg, fallbackThreshold))
}

// PassThreshold picks the configured threshold, then the one stamped on the
// assessment at creation, then fallback.
func PassThreshold(a Assessment, cfg *roundtypes.AssessmentConfig, fallback float64) float64 {
	if cfg != nil && cfg.PassThreshold > 0 {
		return cfg.PassThreshold
	}
	if a.PassThreshold > 0 {
		return a.PassThreshold
	}
	if fallback > 0 {
		return fallback
	}
	return roundtypes.DefaultPassThreshold
}
