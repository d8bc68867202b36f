// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opencities/cityledger/attachments"
	"github.com/opencities/cityledger/handlers"
	"github.com/opencities/cityledger/ledger"
	"github.com/opencities/cityledger/middleware"
	"github.com/opencities/cityledger/tokens"
)

func NewRouter(
	store *ledger.Store,
	resolver *tokens.Resolver,
	svc *attachments.Service,
	gatherer prometheus.Gatherer,
) *http.ServeMux {
	mux := http.NewServeMux()

	dispatcher := handlers.NewDispatcher(store, resolver, svc)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Action dispatch (the whole write surface)
	mux.HandleFunc("POST /api", middleware.WithLogging(dispatcher.Dispatch))

	// Public read-only routes (no token, no lock)
	mux.HandleFunc("GET /votes", middleware.WithLogging(dispatcher.Voting().GetVotesHTTP))
	mux.HandleFunc("GET /polls/{id}/metadata", middleware.WithLogging(dispatcher.Polls().GetPollMetadataHTTP))

	// Metrics
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("cityledger API v1"))
	})

	return mux
}
