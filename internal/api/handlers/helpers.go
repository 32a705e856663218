package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"route-planning-service/internal/api/dto"
	"route-planning-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 64 << 10

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst and validates it.
// It writes the 400 response itself and reports false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var re *domain.ResolutionError
	switch {
	case errors.As(err, &re):
		res := dto.ResolutionErrorResponse{
			Error:   err.Error(),
			Role:    string(re.Role),
			Address: re.Address,
		}
		if re.Role == domain.RoleWaypoint {
			idx := re.Index
			res.Index = &idx
		}
		writeJSON(w, r, http.StatusUnprocessableEntity, res)
	case errors.Is(err, domain.ErrMissingInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSlotOutOfRange):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrRouteNotReady):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSurfaceNotReady):
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, r, http.StatusBadGateway, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
