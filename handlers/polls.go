// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package handlers

import (
	"net/http"

	"github.com/opencities/cityledger/ledger"
	"github.com/opencities/cityledger/middleware"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/tokens"
)

type PollHandler struct {
	store    *ledger.Store
	resolver *tokens.Resolver
}

func NewPollHandler(store *ledger.Store, resolver *tokens.Resolver) *PollHandler {
	return &PollHandler{store: store, resolver: resolver}
}

// CreatePoll handles the createPoll action
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request, req models.ActionRequest) {
	if req.Token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "token is required")
		return
	}
	if req.PollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}

	if _, err := h.resolver.Resolve(r.Context(), req.Token,
		models.ActionCreatePoll, middleware.GetClientIP(r)); err != nil {
		respondError(w, err)
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), req.PollID, req.DocumentURL, req.OrganisedBy)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		Message: "Poll created",
		PollID:  req.PollID,
		Poll:    *poll,
	})
}

// GetPollMetadata handles the getPollMetadata action. Public, lock-free.
func (h *PollHandler) GetPollMetadata(w http.ResponseWriter, r *http.Request, req models.ActionRequest) {
	if req.PollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}
	h.respondMetadata(w, r, req.PollID)
}

// GetPollMetadataHTTP handles GET /polls/{id}/metadata
func (h *PollHandler) GetPollMetadataHTTP(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}
	h.respondMetadata(w, r, pollID)
}

func (h *PollHandler) respondMetadata(w http.ResponseWriter, r *http.Request, pollID string) {
	meta, err := h.store.PollMetadata(r.Context(), pollID)
	if err != nil {
		respondError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PollMetadataResponse{
		Message:  "OK",
		Metadata: *meta,
	})
}
