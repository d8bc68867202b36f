// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/opencities/cityledger/accesslog"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/objectstore"
)

// DefaultKey is where the token registry object lives in the object store.
const DefaultKey = "tokens.json"

// appendTimeout bounds the background access-log write.
const appendTimeout = 5 * time.Second

// ErrInvalidToken is returned for unknown or empty tokens. It must surface
// as a 403, never a 500: an unknown token is a closed door, not a fault.
var ErrInvalidToken = errors.New("invalid access token")

// Resolver maps opaque access tokens to authorized city records via the
// token registry object. The registry is read-only from here; city
// registration lives elsewhere.
type Resolver struct {
	objects objectstore.Store
	log     accesslog.Appender
	key     string
}

type OptionFunc func(*Resolver)

// WithKey overrides the registry object key.
func WithKey(key string) OptionFunc {
	return func(r *Resolver) {
		r.key = key
	}
}

// WithAccessLog wires the fire-and-forget access log.
func WithAccessLog(log accesslog.Appender) OptionFunc {
	return func(r *Resolver) {
		r.log = log
	}
}

// NewResolver creates a token resolver over the given store.
func NewResolver(objects objectstore.Store, opts ...OptionFunc) *Resolver {
	r := &Resolver{
		objects: objects,
		log:     accesslog.Nop{},
		key:     DefaultKey,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve authorizes a token and returns the city it belongs to. On
// success it schedules an access-log append for the given action; the
// append can fail without affecting the caller.
func (r *Resolver) Resolve(ctx context.Context, token, action, remote string) (models.City, error) {
	if token == "" {
		return models.City{}, ErrInvalidToken
	}
	data, err := r.objects.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotExist) {
			// No registry yet means no token is valid.
			return models.City{}, ErrInvalidToken
		}
		return models.City{}, fmt.Errorf("tokens: read registry: %w", err)
	}
	registry := make(map[string]models.City)
	if err := json.Unmarshal(data, &registry); err != nil {
		return models.City{}, fmt.Errorf("tokens: decode registry: %w", err)
	}
	city, ok := registry[token]
	if !ok {
		return models.City{}, ErrInvalidToken
	}

	go r.append(city.ID, action, remote)

	return city, nil
}

func (r *Resolver) append(cityID, action, remote string) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	err := r.log.Append(ctx, accesslog.Entry{
		Time:   time.Now(),
		CityID: cityID,
		Action: action,
		Remote: remote,
	})
	if err != nil {
		slog.Warn("access log append failed", "city_id", cityID, "error", err)
	}
}
