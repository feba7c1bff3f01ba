package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
)

type errorResponse struct {
	Code    domain.ErrorKind `json:"code"`
	Message string           `json:"message"`
}

var statusByKind = map[domain.ErrorKind]int{
	domain.KindNotFound:             http.StatusNotFound,
	domain.KindInvalidArgument:      http.StatusBadRequest,
	domain.KindInvalidState:         http.StatusConflict,
	domain.KindAlreadyExists:        http.StatusConflict,
	domain.KindInsufficientResource: http.StatusBadRequest,
	domain.KindUnauthenticated:      http.StatusUnauthorized,
	domain.KindForbidden:            http.StatusForbidden,
	domain.KindInternal:             http.StatusInternalServerError,
}

func statusOf(kind domain.ErrorKind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError maps err onto the response. Internal causes go to the request
// logger only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	writeJSON(w, statusOf(kind), errorResponse{Code: kind, Message: domain.MessageOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var errInvalidBody = domain.NewError(domain.KindInvalidArgument, "invalid request body")

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}
