package domain

import (
	"time"

	"github.com/google/uuid"
)

// BallotNamespace seeds name-based ballot ids; changing it breaks the
// uniqueness of ballots already stored.
var BallotNamespace = uuid.MustParse("6f1b0d2c-58a3-4b52-9d8e-0c4a7e51b3a1")

type Ballot struct {
	ID       uuid.UUID `json:"id"`
	PollID   uuid.UUID `json:"poll_id"`
	UserID   uuid.UUID `json:"user_id"`
	ChoiceID uuid.UUID `json:"choice_id"`
	CastAt   time.Time `json:"cast_at"`
}

// BallotID is deterministic in (pollID, userID): at most one ballot can
// exist per pair.
func BallotID(pollID, userID uuid.UUID) uuid.UUID {
	return pairID(BallotNamespace, pollID, userID)
}

type CastResult struct {
	PollID         uuid.UUID `json:"poll_id"`
	ChoiceID       uuid.UUID `json:"choice_id"`
	PointsDeducted int64     `json:"points_deducted"`
}

func pairID(ns, a, b uuid.UUID) uuid.UUID {
	name := make([]byte, 0, 32)
	name = append(name, a[:]...)
	name = append(name, b[:]...)
	return uuid.NewSHA1(ns, name)
}
