package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/groupledger/internal/adapter/http/dto"
	"github.com/iho/groupledger/internal/adapter/http/middleware"
	"github.com/iho/groupledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) (int, *domain.Error) {
	de, ok := domain.AsError(err)
	if !ok {
		return http.StatusInternalServerError, de
	}

	switch de.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest, de
	case domain.KindNotFound:
		return http.StatusNotFound, de
	case domain.KindConflict:
		return http.StatusConflict, de
	default:
		return http.StatusInternalServerError, de
	}
}

// respondError writes err as a JSON error. Internal failures are logged and
// their detail is kept out of the response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, de := mapDomainError(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, domain.ErrInternal.Code, domain.ErrInternal.Message)
		return
	}
	writeError(w, status, de.Code, err.Error())
}

// principal returns the caller resolved by the auth middleware.
func principal(r *http.Request) middleware.Principal {
	p, _ := middleware.PrincipalFromContext(r.Context())
	return p
}

// decodeJSON decodes the body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
