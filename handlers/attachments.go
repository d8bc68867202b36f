// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package handlers

import (
	"net/http"

	"github.com/opencities/cityledger/attachments"
	"github.com/opencities/cityledger/middleware"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/tokens"
)

type AttachmentHandler struct {
	svc      *attachments.Service
	resolver *tokens.Resolver
}

func NewAttachmentHandler(svc *attachments.Service, resolver *tokens.Resolver) *AttachmentHandler {
	return &AttachmentHandler{svc: svc, resolver: resolver}
}

// Upload handles the uploadAttachment action
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request, req models.ActionRequest) {
	if req.Token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "token is required")
		return
	}
	if req.PollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}

	if _, err := h.resolver.Resolve(r.Context(), req.Token,
		models.ActionUploadAttachment, middleware.GetClientIP(r)); err != nil {
		respondError(w, err)
		return
	}

	res, err := h.svc.Reserve(r.Context(), req.PollID, req.AttachmentID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UploadAttachmentResponse{
		Message:         "Upload slot reserved",
		FormattedPollID: res.FormattedPollID,
		UploadURL:       res.UploadURL,
		ReadURL:         res.ReadURL,
	})
}

// GetURL handles the getAttachmentUrl action. Public.
func (h *AttachmentHandler) GetURL(w http.ResponseWriter, r *http.Request, req models.ActionRequest) {
	if req.PollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}

	url, err := h.svc.ReadURL(r.Context(), req.PollID, req.AttachmentID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AttachmentURLResponse{
		Message: "OK",
		URL:     url,
	})
}
