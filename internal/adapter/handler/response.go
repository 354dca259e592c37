package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps service and domain errors onto HTTP status codes. The
// boolean reports whether the error is one of the expected kinds; anything
// else is a 500 the caller should log.
func errorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrDuplicateUser),
		errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusGone, true
	}
	return http.StatusInternalServerError, false
}

// respondError translates err into an HTTP error response. Unexpected errors
// are logged under op and masked as a plain 500.
func respondError(w http.ResponseWriter, logger zerolog.Logger, err error, op string) {
	status, known := errorStatus(err)
	if !known {
		logger.Error().Err(err).Msg(op)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
