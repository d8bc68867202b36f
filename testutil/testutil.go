// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opencities/cityledger/ledger"
	"github.com/opencities/cityledger/lock"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/objectstore"
	"github.com/opencities/cityledger/tokens"
)

// Test tokens and the cities they resolve to
const (
	TestToken       = "tok-freiburg-123"
	TestTokenOther  = "tok-ghent-456"
	TestCityID      = "city-freiburg"
	TestCityIDOther = "city-ghent"
)

// NewStore returns a fresh in-memory object store.
func NewStore(t *testing.T) *objectstore.Memory {
	t.Helper()
	return objectstore.NewMemory()
}

// SeedTokens writes a token registry with the two standard test cities.
func SeedTokens(t *testing.T, objects objectstore.Store) {
	t.Helper()
	registry := map[string]models.City{
		TestToken: {
			ID:      TestCityID,
			Name:    "Freiburg",
			Country: "Germany",
		},
		TestTokenOther: {
			ID:      TestCityIDOther,
			Name:    "Ghent",
			Country: "Belgium",
		},
	}
	data, err := json.Marshal(registry)
	if err != nil {
		t.Fatalf("Failed to marshal token registry: %v", err)
	}
	if err := objects.Put(context.Background(), tokens.DefaultKey, data); err != nil {
		t.Fatalf("Failed to seed token registry: %v", err)
	}
}

// NewLedger builds a ledger store over the given objects with a shortened
// lock settle delay so mutations stay cheap in tests.
func NewLedger(t *testing.T, objects objectstore.Store) *ledger.Store {
	t.Helper()
	locks := lock.NewManager(objects,
		lock.WithSettleDelay(10*time.Millisecond),
	)
	return ledger.NewStore(objects, locks)
}

// ReadLedger decodes the raw ledger document for assertions.
func ReadLedger(t *testing.T, objects objectstore.Store) map[string]*models.Poll {
	t.Helper()
	data, err := objects.Get(context.Background(), ledger.DefaultKey)
	if err != nil {
		t.Fatalf("Failed to read ledger document: %v", err)
	}
	polls := make(map[string]*models.Poll)
	if err := json.Unmarshal(data, &polls); err != nil {
		t.Fatalf("Failed to decode ledger document: %v", err)
	}
	return polls
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeActionRequest creates a POST /api dispatch request
func MakeActionRequest(body models.ActionRequest) *http.Request {
	return MakeRequest("POST", "/api", body, nil)
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
