// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package handlers

import (
	"net/http"

	"github.com/opencities/cityledger/attachments"
	"github.com/opencities/cityledger/ledger"
	"github.com/opencities/cityledger/middleware"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/tokens"
)

// Dispatcher routes action-dispatch requests to the per-concern handlers.
// One action per request; the action name picks the handler, the handler
// validates the fields it needs.
type Dispatcher struct {
	auth        *AuthHandler
	polls       *PollHandler
	voting      *VotingHandler
	attachments *AttachmentHandler
}

func NewDispatcher(store *ledger.Store, resolver *tokens.Resolver, svc *attachments.Service) *Dispatcher {
	return &Dispatcher{
		auth:        NewAuthHandler(resolver),
		polls:       NewPollHandler(store, resolver),
		voting:      NewVotingHandler(store, resolver),
		attachments: NewAttachmentHandler(svc, resolver),
	}
}

// Voting returns the voting sub-handler, for the plain GET routes.
func (d *Dispatcher) Voting() *VotingHandler { return d.voting }

// Polls returns the poll sub-handler, for the plain GET routes.
func (d *Dispatcher) Polls() *PollHandler { return d.polls }

// Dispatch handles POST /api
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req models.ActionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Action {
	case models.ActionValidateToken:
		d.auth.ValidateToken(w, r, req)
	case models.ActionVote:
		d.voting.Vote(w, r, req)
	case models.ActionCreatePoll:
		d.polls.CreatePoll(w, r, req)
	case models.ActionUploadAttachment:
		d.attachments.Upload(w, r, req)
	case models.ActionGetAttachmentURL:
		d.attachments.GetURL(w, r, req)
	case models.ActionGetPollMetadata:
		d.polls.GetPollMetadata(w, r, req)
	case models.ActionGetVotes:
		d.voting.GetVotes(w, r, req)
	case "":
		middleware.ErrorResponse(w, http.StatusBadRequest, "action is required")
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown action: "+req.Action)
	}
}
