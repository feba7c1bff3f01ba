package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type castBallotRequest struct {
	ChoiceID uuid.UUID `json:"choice_id"`
}

// CastBallot godoc
// @Summary      Casts the caller's ballot on a poll
// @Description  Debits the poll's required points. One ballot per user and poll.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400,401,404,409
// @Router       /api/polls/{id}/ballots [post]
func (h *VoteHandler) CastBallot(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req castBallotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Cast(r.Context(), ports.CastInput{
		PollID:   pollID,
		UserID:   userID,
		ChoiceID: req.ChoiceID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *VoteHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ballot, err := h.service.GetBallot(r.Context(), pollID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ballot)
}
