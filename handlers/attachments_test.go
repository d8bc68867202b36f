// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/opencities/cityledger/attachments"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/testutil"
)

func TestUploadAttachment(t *testing.T) {
	d, _ := newTestDispatcher(t)

	w := doAction(d, models.ActionRequest{
		Action: models.ActionUploadAttachment,
		Token:  testutil.TestToken,
		PollID: "Q1",
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.UploadAttachmentResponse
	testutil.AssertJSON(t, w, &resp)

	hash := attachments.Hash("Q1")
	if resp.FormattedPollID != "Q1"+attachments.Delimiter+hash {
		t.Errorf("FormattedPollID = %q", resp.FormattedPollID)
	}
	if resp.UploadURL == "" || resp.ReadURL == "" {
		t.Error("expected both upload and read URLs")
	}
	if !strings.Contains(resp.ReadURL, hash) {
		t.Errorf("ReadURL = %q does not embed the hash", resp.ReadURL)
	}

	// Determinism: a second reservation for the same poll is identical
	w2 := doAction(d, models.ActionRequest{
		Action: models.ActionUploadAttachment,
		Token:  testutil.TestToken,
		PollID: "Q1",
	})
	var resp2 models.UploadAttachmentResponse
	testutil.AssertJSON(t, w2, &resp2)
	if resp2.FormattedPollID != resp.FormattedPollID || resp2.ReadURL != resp.ReadURL {
		t.Error("repeated reservation produced a different slot")
	}
}

func TestUploadAttachmentExplicitID(t *testing.T) {
	d, _ := newTestDispatcher(t)

	w := doAction(d, models.ActionRequest{
		Action:       models.ActionUploadAttachment,
		Token:        testutil.TestToken,
		PollID:       "Q1",
		AttachmentID: "abc",
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.UploadAttachmentResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.FormattedPollID != "Q1"+attachments.Delimiter+"abc" {
		t.Errorf("FormattedPollID = %q", resp.FormattedPollID)
	}
}

func TestUploadAttachmentAuth(t *testing.T) {
	d, _ := newTestDispatcher(t)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"invalid token", "tok-nope", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAction(d, models.ActionRequest{
				Action: models.ActionUploadAttachment,
				Token:  tt.token,
				PollID: "Q1",
			})
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestGetAttachmentURLBeforeUpload(t *testing.T) {
	// Reserved or not, an un-uploaded slot is a 404
	d, _ := newTestDispatcher(t)

	w := doAction(d, models.ActionRequest{
		Action:       models.ActionGetAttachmentURL,
		PollID:       "Q1",
		AttachmentID: "abc",
	})
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetAttachmentURLAfterUpload(t *testing.T) {
	d, objects := newTestDispatcher(t)

	// Simulate the uploader writing the slot via its credential
	key := attachments.Key(attachments.Hash("Q1"))
	if err := objects.Put(context.Background(), key, []byte("%PDF-1.7")); err != nil {
		t.Fatal(err)
	}

	// Public: no token needed
	w := doAction(d, models.ActionRequest{
		Action: models.ActionGetAttachmentURL,
		PollID: "Q1",
	})
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AttachmentURLResponse
	testutil.AssertJSON(t, w, &resp)
	if !strings.Contains(resp.URL, key) {
		t.Errorf("URL = %q", resp.URL)
	}
}
