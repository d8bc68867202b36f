// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/opencities/cityledger/ledger"
	"github.com/opencities/cityledger/middleware"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/tokens"
)

type VotingHandler struct {
	store    *ledger.Store
	resolver *tokens.Resolver
}

func NewVotingHandler(store *ledger.Store, resolver *tokens.Resolver) *VotingHandler {
	return &VotingHandler{store: store, resolver: resolver}
}

// Vote handles the vote action
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request, req models.ActionRequest) {
	if req.Token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "token is required")
		return
	}

	// Validate before resolving or locking anything: clearly-invalid input
	// must never contend for the lock.
	if req.PollID == "" || req.Option == "" || req.Title == "" ||
		req.Name == "" || req.ActingCapacity == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"pollId, option, title, name and actingCapacity are required")
		return
	}

	city, err := h.resolver.Resolve(r.Context(), req.Token,
		models.ActionVote, middleware.GetClientIP(r))
	if err != nil {
		respondError(w, err)
		return
	}

	// An explicit cityId must match the identity the token resolves to.
	if req.CityID != "" && req.CityID != city.ID {
		middleware.ErrorResponse(w, http.StatusForbidden,
			"cityId does not match the token's city")
		return
	}

	vote := models.Vote{
		Time:   time.Now().UnixMilli(),
		Option: req.Option,
		Author: models.Author{
			Title:          req.Title,
			Name:           req.Name,
			ActingCapacity: req.ActingCapacity,
		},
		AssociatedCityID:     city.ID,
		ExternallyVerifiedBy: req.ExternallyVerifiedBy,
	}

	if err := h.store.AppendVote(r.Context(), req.PollID, vote); err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Message: "Vote recorded",
		PollID:  req.PollID,
	})
}

// GetVotes handles the getVotes action. Public, lock-free.
func (h *VotingHandler) GetVotes(w http.ResponseWriter, r *http.Request, req models.ActionRequest) {
	h.respondVotes(w, r, req.IdentityID)
}

// GetVotesHTTP handles GET /votes?cityId=
func (h *VotingHandler) GetVotesHTTP(w http.ResponseWriter, r *http.Request) {
	h.respondVotes(w, r, r.URL.Query().Get("cityId"))
}

func (h *VotingHandler) respondVotes(w http.ResponseWriter, r *http.Request, cityID string) {
	polls, err := h.store.AllVotes(r.Context(), cityID)
	if err != nil {
		respondError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VotesResponse{
		Message: "OK",
		Polls:   polls,
	})
}
