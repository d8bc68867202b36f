// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package handlers

import (
	"net/http"

	"github.com/opencities/cityledger/middleware"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/tokens"
)

type AuthHandler struct {
	resolver *tokens.Resolver
}

func NewAuthHandler(resolver *tokens.Resolver) *AuthHandler {
	return &AuthHandler{resolver: resolver}
}

// ValidateToken handles the validateToken action
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request, req models.ActionRequest) {
	if req.Token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "token is required")
		return
	}

	city, err := h.resolver.Resolve(r.Context(), req.Token,
		models.ActionValidateToken, middleware.GetClientIP(r))
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ValidateTokenResponse{
		Message: "Token is valid",
		City:    city,
	})
}
