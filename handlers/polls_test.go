// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/testutil"
)

func TestCreatePoll(t *testing.T) {
	d, objects := newTestDispatcher(t)

	w := doAction(d, models.ActionRequest{
		Action:      models.ActionCreatePoll,
		Token:       testutil.TestToken,
		PollID:      "Q1",
		DocumentURL: "https://example.org/q1.pdf",
		OrganisedBy: "City Network",
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreatePollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.PollID != "Q1" {
		t.Errorf("resp.PollID = %q", resp.PollID)
	}
	if resp.Poll.Type != models.TypePoll {
		t.Errorf("resp.Poll.Type = %q", resp.Poll.Type)
	}

	polls := testutil.ReadLedger(t, objects)
	poll, ok := polls["Q1"]
	if !ok {
		t.Fatal("poll not in ledger")
	}
	if poll.DocumentURL != "https://example.org/q1.pdf" {
		t.Errorf("poll.DocumentURL = %q", poll.DocumentURL)
	}
	if poll.OrganisedBy != "City Network" {
		t.Errorf("poll.OrganisedBy = %q", poll.OrganisedBy)
	}
}

func TestCreatePollDuplicate(t *testing.T) {
	// Second create with the same id: 409, exactly one poll in the ledger
	d, objects := newTestDispatcher(t)

	req := models.ActionRequest{
		Action: models.ActionCreatePoll,
		Token:  testutil.TestToken,
		PollID: "Q1",
	}
	testutil.AssertStatus(t, doAction(d, req), http.StatusCreated)
	testutil.AssertStatus(t, doAction(d, req), http.StatusConflict)

	polls := testutil.ReadLedger(t, objects)
	if len(polls) != 1 {
		t.Errorf("ledger has %d polls, want 1", len(polls))
	}
}

func TestCreatePollValidation(t *testing.T) {
	d, _ := newTestDispatcher(t)

	tests := []struct {
		name       string
		req        models.ActionRequest
		wantStatus int
	}{
		{
			"missing token",
			models.ActionRequest{Action: models.ActionCreatePoll, PollID: "Q1"},
			http.StatusUnauthorized,
		},
		{
			"invalid token",
			models.ActionRequest{Action: models.ActionCreatePoll, Token: "tok-nope", PollID: "Q1"},
			http.StatusForbidden,
		},
		{
			"missing poll id",
			models.ActionRequest{Action: models.ActionCreatePoll, Token: testutil.TestToken},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAction(d, tt.req)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestGetPollMetadata(t *testing.T) {
	d, _ := newTestDispatcher(t)

	testutil.AssertStatus(t, doAction(d, models.ActionRequest{
		Action:      models.ActionCreatePoll,
		Token:       testutil.TestToken,
		PollID:      "joint_statement_X",
		DocumentURL: "https://example.org/x.pdf",
	}), http.StatusCreated)

	// Public: no token needed
	w := doAction(d, models.ActionRequest{
		Action: models.ActionGetPollMetadata,
		PollID: "joint_statement_X",
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollMetadataResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Metadata.Type != models.TypeJointStatement {
		t.Errorf("metadata type = %q", resp.Metadata.Type)
	}
	if resp.Metadata.DocumentURL != "https://example.org/x.pdf" {
		t.Errorf("metadata documentURL = %q", resp.Metadata.DocumentURL)
	}
	if resp.Metadata.CreatedAt == 0 {
		t.Error("metadata createdAt not set")
	}
}

func TestGetPollMetadataNotFound(t *testing.T) {
	d, _ := newTestDispatcher(t)

	w := doAction(d, models.ActionRequest{
		Action: models.ActionGetPollMetadata,
		PollID: "unknown",
	})
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
