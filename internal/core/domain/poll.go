package domain

import (
	"time"

	"github.com/google/uuid"
)

type PollStatus string

const (
	StatusUpcoming PollStatus = "upcoming"
	StatusActive   PollStatus = "active"
	StatusEnded    PollStatus = "ended"
)

func ParsePollStatus(s string) (PollStatus, error) {
	switch st := PollStatus(s); st {
	case StatusUpcoming, StatusActive, StatusEnded:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// DeriveStatus places now on the [start, end) window of a poll.
func DeriveStatus(now, start, end time.Time) PollStatus {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.Before(end):
		return StatusActive
	default:
		return StatusEnded
	}
}

type Poll struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Choices        []Choice   `json:"choices"`
	StartAt        time.Time  `json:"start_at"`
	EndAt          time.Time  `json:"end_at"`
	RequiredPoints int64      `json:"required_points"`
	Status         PollStatus `json:"status"`
	TotalVotes     int64      `json:"total_votes"`
	CoverImageURL  *string    `json:"cover_image_url,omitempty"`
	Featured       bool       `json:"featured"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Choice struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Label     string    `json:"label"`
	Position  int       `json:"position"`
	VoteCount int64     `json:"vote_count"`
}

func (p *Poll) CurrentStatus(now time.Time) PollStatus {
	return DeriveStatus(now, p.StartAt, p.EndAt)
}

func (p *Poll) HasChoice(id uuid.UUID) bool {
	for _, c := range p.Choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ValidateSchedule checks the fields an administrator may set on a poll.
func ValidateSchedule(start, end time.Time, requiredPoints int64) error {
	if !end.After(start) {
		return ErrInvalidSchedule
	}
	if requiredPoints < 0 {
		return ErrNegativePoints
	}
	return nil
}
