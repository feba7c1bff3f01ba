package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createPollRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Choices        []string  `json:"choices"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	RequiredPoints int64     `json:"required_points"`
	CoverImageURL  *string   `json:"cover_image_url"`
	Featured       bool      `json:"featured"`
}

type updatePollRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	StartAt        *time.Time `json:"start_at"`
	EndAt          *time.Time `json:"end_at"`
	RequiredPoints *int64     `json:"required_points"`
	CoverImageURL  *string    `json:"cover_image_url"`
	Featured       *bool      `json:"featured"`
	Choices        []string   `json:"choices"`
}

func pollIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.ErrInvalidPollID
	}
	return id, nil
}

// CreatePoll godoc
// @Summary      Creates a poll
// @Tags         polls
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400,401,403
// @Router       /api/polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.service.Create(r.Context(), ports.CreatePollInput{
		Title:          req.Title,
		Description:    req.Description,
		Choices:        req.Choices,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		RequiredPoints: req.RequiredPoints,
		CoverImageURL:  req.CoverImageURL,
		Featured:       req.Featured,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, poll)
}

// UpdatePoll godoc
// @Summary      Updates poll metadata
// @Description  Choices cannot be changed once the poll exists.
// @Tags         polls
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400,401,403,404,409
// @Router       /api/polls/{id} [patch]
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updatePollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.service.Update(r.Context(), id, ports.UpdatePollInput{
		Title:          req.Title,
		Description:    req.Description,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		RequiredPoints: req.RequiredPoints,
		CoverImageURL:  req.CoverImageURL,
		Featured:       req.Featured,
		Choices:        req.Choices,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

// ListPolls godoc
// @Summary      Lists polls, newest first
// @Tags         polls
// @Produce      json
// @Param        status  query  string  false  "upcoming, active or ended"
// @Param        limit   query  int     false  "page size, default 50, at most 100"
// @Param        offset  query  int     false  "rows to skip"
// @Success      200
// @Failure      400
// @Router       /api/polls [get]
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intQuery(q.Get("limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := intQuery(q.Get("offset"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	polls, err := h.service.ListPolls(r.Context(), ports.ListPollsInput{
		Status: q.Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ranking, err := h.service.GetRanking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

func intQuery(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidPage
	}
	return n, nil
}
