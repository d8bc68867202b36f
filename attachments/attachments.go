// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package attachments

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencities/cityledger/objectstore"
)

const (
	// KeyPrefix is where attachment binaries live in the object store.
	KeyPrefix = "attachments/"

	// Delimiter separates a poll id from its attachment hash in the
	// formatted id convention.
	Delimiter = "~"

	// UploadExpiry bounds how long an issued write credential stays valid.
	UploadExpiry = 15 * time.Minute
)

// ErrNotFound is returned when no attachment object exists for a poll.
var ErrNotFound = errors.New("attachment not found")

// Reservation is the result of reserving an attachment slot: the poll id
// with the hash folded in, a short-lived direct-upload credential, and the
// permanent public read URL for the same key.
type Reservation struct {
	FormattedPollID string
	UploadURL       string
	ReadURL         string
}

// Service derives deterministic storage slots for poll attachments and
// issues upload credentials for them. It never moves bytes itself and never
// verifies that a credential was used; uploading and then creating the poll
// under the formatted id is the caller's sequence to get right.
type Service struct {
	objects objectstore.Store
}

// NewService creates an attachment service over the given store.
func NewService(objects objectstore.Store) *Service {
	return &Service{objects: objects}
}

// Hash returns the content address for a poll id: URL-safe unpadded base64
// of its SHA-256. Deterministic, so repeated reservations for the same poll
// land on the same slot.
func Hash(pollID string) string {
	sum := sha256.Sum256([]byte(pollID))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum[:]), "=")
}

// Key returns the object key for an attachment hash. Derived purely from
// the hash, never from poll content.
func Key(hash string) string {
	return KeyPrefix + hash + ".pdf"
}

// FormatPollID folds the hash into the poll id unless it is already there.
func FormatPollID(pollID, hash string) string {
	if strings.HasSuffix(pollID, Delimiter+hash) {
		return pollID
	}
	return pollID + Delimiter + hash
}

// Reserve computes the attachment slot for a poll (explicitID overrides the
// derived hash) and issues a write credential for it.
func (s *Service) Reserve(ctx context.Context, pollID, explicitID string) (*Reservation, error) {
	hash := explicitID
	if hash == "" {
		hash = Hash(pollID)
	}
	key := Key(hash)

	uploadURL, err := s.objects.SignedPutURL(ctx, key, UploadExpiry)
	if err != nil {
		return nil, fmt.Errorf("attachments: issue credential: %w", err)
	}
	return &Reservation{
		FormattedPollID: FormatPollID(pollID, hash),
		UploadURL:       uploadURL,
		ReadURL:         s.objects.PublicURL(key),
	}, nil
}

// ReadURL returns the public URL for a poll's attachment, or ErrNotFound
// when nothing has been uploaded to its slot.
func (s *Service) ReadURL(ctx context.Context, pollID, explicitID string) (string, error) {
	hash := explicitID
	if hash == "" {
		hash = Hash(pollID)
	}
	key := Key(hash)

	exists, err := s.objects.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("attachments: stat: %w", err)
	}
	if !exists {
		return "", ErrNotFound
	}
	return s.objects.PublicURL(key), nil
}
