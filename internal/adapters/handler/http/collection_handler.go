package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type CollectionHandler struct {
	service ports.CollectionService
}

func NewCollectionHandler(service ports.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		service: service,
	}
}

var errInvalidCollectionID = domain.NewError(domain.KindInvalidArgument, "invalid collection id")

type toggleSaveRequest struct {
	Saved *bool `json:"saved"`
}

type toggleLikeRequest struct {
	Liked *bool `json:"liked"`
}

func collectionIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errInvalidCollectionID
	}
	return id, nil
}

func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, err := collectionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.service.GetCollection(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ToggleSave godoc
// @Summary      Saves or unsaves a collection for the caller
// @Description  Idempotent: saving twice keeps one save record.
// @Tags         collections
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400,401,404
// @Router       /api/collections/{id}/save [put]
func (h *CollectionHandler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	var req toggleSaveRequest
	h.toggle(w, r, &req, func() *bool { return req.Saved }, h.service.ToggleSave)
}

func (h *CollectionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	var req toggleLikeRequest
	h.toggle(w, r, &req, func() *bool { return req.Liked }, h.service.ToggleLike)
}

type toggleFunc func(ctx context.Context, userID, collectionID uuid.UUID, want bool) (*domain.ToggleResult, error)

func (h *CollectionHandler) toggle(w http.ResponseWriter, r *http.Request, req any, want func() *bool, fn toggleFunc) {
	id, err := collectionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(r, req); err != nil {
		writeError(w, r, err)
		return
	}
	flag := want()
	if flag == nil {
		writeError(w, r, errInvalidBody)
		return
	}

	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := fn(r.Context(), userID, id, *flag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
