// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opencities/cityledger/lock"
	"github.com/opencities/cityledger/metrics"
	"github.com/opencities/cityledger/models"
	"github.com/opencities/cityledger/objectstore"
)

// DefaultKey is where the ledger document lives in the object store.
const DefaultKey = "polls.json"

var (
	// ErrAlreadyExists is returned when creating a poll whose id is taken.
	ErrAlreadyExists = errors.New("poll already exists")

	// ErrNotFound is returned by metadata reads for unknown polls.
	ErrNotFound = errors.New("poll not found")

	// ErrMissingFields is returned when a vote lacks required fields.
	// Checked before the lock is touched.
	ErrMissingFields = errors.New("missing required vote fields")
)

// Store owns the poll/vote ledger: a single JSON document mapping poll ids
// to polls. Every mutation is a lock-acquire, read, modify, whole-document
// write, lock-release cycle. Reads never take the lock.
type Store struct {
	objects objectstore.Store
	locks   *lock.Manager
	metrics *metrics.Metrics
	key     string
}

type OptionFunc func(*Store)

// WithKey overrides the ledger document key.
func WithKey(key string) OptionFunc {
	return func(s *Store) {
		s.key = key
	}
}

// WithMetrics wires write-volume counters.
func WithMetrics(m *metrics.Metrics) OptionFunc {
	return func(s *Store) {
		s.metrics = m
	}
}

// NewStore creates a ledger store that serializes mutations through locks.
func NewStore(objects objectstore.Store, locks *lock.Manager, opts ...OptionFunc) *Store {
	s := &Store{
		objects: objects,
		locks:   locks,
		key:     DefaultKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClassifyPollID derives the poll type from the id prefix convention.
func ClassifyPollID(pollID string) string {
	if strings.HasPrefix(pollID, models.JointStatementPrefix) {
		return models.TypeJointStatement
	}
	return models.TypePoll
}

// CreatePoll inserts a new empty poll. The id is caller-chosen; a taken id
// fails with ErrAlreadyExists and leaves the ledger untouched.
func (s *Store) CreatePoll(ctx context.Context, pollID, documentURL, organisedBy string) (*models.Poll, error) {
	var created *models.Poll
	err := s.withLock(ctx, func(polls map[string]*models.Poll) (bool, error) {
		if _, exists := polls[pollID]; exists {
			return false, ErrAlreadyExists
		}
		poll := &models.Poll{
			Type:        ClassifyPollID(pollID),
			Votes:       []models.Vote{},
			DocumentURL: documentURL,
			OrganisedBy: organisedBy,
			CreatedAt:   time.Now().UnixMilli(),
		}
		polls[pollID] = poll
		created = poll
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncPollsCreated()
	slog.Info("poll created", "poll_id", pollID, "type", created.Type)
	return created, nil
}

// AppendVote records a vote on a poll. A vote on a poll that was never
// created first creates an empty shell for it, classified by the same id
// prefix rule. Votes are never deduplicated here.
func (s *Store) AppendVote(ctx context.Context, pollID string, vote models.Vote) error {
	// Fail fast on invalid input so bad requests never contend for the lock.
	if pollID == "" || vote.Option == "" || vote.Author.Title == "" ||
		vote.Author.Name == "" || vote.Author.ActingCapacity == "" {
		return ErrMissingFields
	}

	err := s.withLock(ctx, func(polls map[string]*models.Poll) (bool, error) {
		poll, exists := polls[pollID]
		if !exists {
			// Auto-create on first vote.
			poll = &models.Poll{
				Type:      ClassifyPollID(pollID),
				Votes:     []models.Vote{},
				CreatedAt: time.Now().UnixMilli(),
			}
			polls[pollID] = poll
		}
		poll.Votes = append(poll.Votes, vote)
		return true, nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncVotesAppended()
	slog.Info("vote appended", "poll_id", pollID, "city_id", vote.AssociatedCityID)
	return nil
}

// PollMetadata returns a poll's creation metadata. Lock-free.
func (s *Store) PollMetadata(ctx context.Context, pollID string) (*models.PollMetadata, error) {
	polls, err := s.readLedger(ctx)
	if err != nil {
		return nil, err
	}
	poll, exists := polls[pollID]
	if !exists {
		return nil, ErrNotFound
	}
	return &models.PollMetadata{
		Type:        poll.Type,
		DocumentURL: poll.DocumentURL,
		OrganisedBy: poll.OrganisedBy,
		CreatedAt:   poll.CreatedAt,
	}, nil
}

// AllVotes returns the full ledger snapshot, or, when cityID is non-empty,
// only polls carrying at least one of that city's votes with the vote lists
// filtered down to them. Lock-free; a concurrent writer means the snapshot
// is either the pre- or post-mutation document, never a torn one.
func (s *Store) AllVotes(ctx context.Context, cityID string) (map[string]*models.Poll, error) {
	polls, err := s.readLedger(ctx)
	if err != nil {
		return nil, err
	}
	if cityID == "" {
		return polls, nil
	}

	filtered := make(map[string]*models.Poll)
	for id, poll := range polls {
		var votes []models.Vote
		for _, v := range poll.Votes {
			if v.AssociatedCityID == cityID {
				votes = append(votes, v)
			}
		}
		if len(votes) == 0 {
			continue
		}
		filtered[id] = &models.Poll{
			Type:        poll.Type,
			Votes:       votes,
			DocumentURL: poll.DocumentURL,
			OrganisedBy: poll.OrganisedBy,
			CreatedAt:   poll.CreatedAt,
		}
	}
	return filtered, nil
}

// withLock runs mutate inside a lock hold. The mutation sees the freshly
// read document and reports whether it changed anything worth writing back.
// Release runs in a deferred path so an error mid-cycle can't leak the hold.
func (s *Store) withLock(ctx context.Context, mutate func(map[string]*models.Poll) (bool, error)) error {
	holder := uuid.NewString()
	if err := s.locks.Acquire(ctx, holder); err != nil {
		return err
	}
	defer func() {
		// Release even when the request context was cancelled mid-cycle;
		// otherwise the hold lingers until the lock times out.
		if err := s.locks.Release(context.WithoutCancel(ctx), holder); err != nil {
			slog.Warn("lock release failed", "holder", holder, "error", err)
		}
	}()

	polls, err := s.readLedger(ctx)
	if err != nil {
		return err
	}
	dirty, err := mutate(polls)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	return s.writeLedger(ctx, polls)
}

// readLedger fetches and decodes the whole document. A missing document is
// an empty ledger, not an error.
func (s *Store) readLedger(ctx context.Context) (map[string]*models.Poll, error) {
	data, err := s.objects.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotExist) {
			return make(map[string]*models.Poll), nil
		}
		return nil, fmt.Errorf("ledger: read: %w", err)
	}
	polls := make(map[string]*models.Poll)
	if err := json.Unmarshal(data, &polls); err != nil {
		return nil, fmt.Errorf("ledger: decode: %w", err)
	}
	return polls, nil
}

// writeLedger rewrites the whole document. The store has no partial patch
// primitive, so every mutation pays for a full serialization.
func (s *Store) writeLedger(ctx context.Context, polls map[string]*models.Poll) error {
	data, err := json.Marshal(polls)
	if err != nil {
		return fmt.Errorf("ledger: encode: %w", err)
	}
	if err := s.objects.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("ledger: write: %w", err)
	}
	s.metrics.IncLedgerWrites()
	return nil
}
