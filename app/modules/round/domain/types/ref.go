package roundtypes

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

type refKind int

const (
	refByID refKind = iota + 1
	refByFixedKey
)

// RoundRef identifies a round either by its id or by a job's fixed anchor key.
type RoundRef struct {
	kind  refKind
	id    uuid.UUID
	jobID uuid.UUID
	key   FixedKey
}

// RefByID references a concrete round.
func RefByID(id uuid.UUID) RoundRef {
	return RoundRef{kind: refByID, id: id}
}

// RefByFixedKey references a job's anchor round without knowing its id.
func RefByFixedKey(jobID uuid.UUID, key FixedKey) RoundRef {
	return RoundRef{kind: refByFixedKey, jobID: jobID, key: key}
}

// ID returns the round id and whether the ref is id-based.
func (r RoundRef) ID() (uuid.UUID, bool) {
	return r.id, r.kind == refByID
}

// FixedKey returns the job and key and whether the ref is key-based.
func (r RoundRef) FixedKey() (uuid.UUID, FixedKey, bool) {
	return r.jobID, r.key, r.kind == refByFixedKey
}

// IsZero reports whether the ref was never initialised.
func (r RoundRef) IsZero() bool {
	return r.kind == 0
}

func (r RoundRef) String() string {
	switch r.kind {
	case refByID:
		return r.id.String()
	case refByFixedKey:
		return fmt.Sprintf("fixed-%s-%s", r.key, r.jobID)
	default:
		return "<nil round ref>"
	}
}

var fixedAliasPattern = regexp.MustCompile(`^fixed-(NEW|OFFER|HIRED|REJECTED)-([0-9a-fA-F-]{36})$`)

// ParseRoundRef accepts either a round uuid or the alias fixed-<KEY>-<jobId>
// that clients send before they know a job's anchor round ids.
func ParseRoundRef(s string) (RoundRef, error) {
	if m := fixedAliasPattern.FindStringSubmatch(s); m != nil {
		jobID, err := uuid.Parse(m[2])
		if err != nil {
			return RoundRef{}, fmt.Errorf("invalid job id in round alias %q: %w", s, err)
		}
		return RefByFixedKey(jobID, FixedKey(m[1])), nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return RoundRef{}, fmt.Errorf("invalid round reference %q: %w", s, err)
	}
	return RefByID(id), nil
}
