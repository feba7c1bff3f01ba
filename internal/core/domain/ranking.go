package domain

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

type RankingView struct {
	PollID     uuid.UUID      `json:"poll_id"`
	Title      string         `json:"title"`
	TotalVotes int64          `json:"total_votes"`
	Entries    []RankingEntry `json:"entries"`
}

type RankingEntry struct {
	ChoiceID   uuid.UUID `json:"choice_id"`
	Label      string    `json:"label"`
	VoteCount  int64     `json:"vote_count"`
	Percentage float64   `json:"percentage"`
}

// Project orders choices by vote count, highest first. Equal counts keep
// the poll's original choice order.
func Project(poll *Poll) RankingView {
	choices := slices.Clone(poll.Choices)
	slices.SortStableFunc(choices, func(a, b Choice) int {
		if c := cmp.Compare(b.VoteCount, a.VoteCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})

	entries := make([]RankingEntry, 0, len(choices))
	for _, c := range choices {
		percentage := 0.0
		if poll.TotalVotes > 0 {
			percentage = (float64(c.VoteCount) / float64(poll.TotalVotes)) * 100
		}
		entries = append(entries, RankingEntry{
			ChoiceID:   c.ID,
			Label:      c.Label,
			VoteCount:  c.VoteCount,
			Percentage: percentage,
		})
	}

	return RankingView{
		PollID:     poll.ID,
		Title:      poll.Title,
		TotalVotes: poll.TotalVotes,
		Entries:    entries,
	}
}
