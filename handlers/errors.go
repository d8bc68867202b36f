// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/opencities/cityledger/attachments"
	"github.com/opencities/cityledger/ledger"
	"github.com/opencities/cityledger/lock"
	"github.com/opencities/cityledger/middleware"
	"github.com/opencities/cityledger/tokens"
)

// respondError maps domain errors onto the HTTP status taxonomy. Retryable
// conditions (lock busy) must stay distinguishable from terminal ones so
// clients can back off and retry only where it helps.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrMissingFields):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, tokens.ErrInvalidToken):
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid token")
	case errors.Is(err, ledger.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, attachments.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Attachment not found")
	case errors.Is(err, ledger.ErrAlreadyExists):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll already exists")
	case errors.Is(err, lock.ErrBusy):
		w.Header().Set("Retry-After", "1")
		middleware.ErrorResponse(w, http.StatusTooManyRequests,
			"Ledger is busy, retry shortly")
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponseDetails(w, http.StatusInternalServerError,
			"Unexpected error", err.Error())
	}
}
