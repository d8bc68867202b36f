// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package objectstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMemoryGetPutDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Get(missing) error = %v, want ErrNotExist", err)
	}

	if err := m.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	data, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "v1" {
		t.Errorf("Get() = %q, want %q", data, "v1")
	}

	// Put replaces wholesale
	if err := m.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	data, _ = m.Get(ctx, "k")
	if string(data) != "v2" {
		t.Errorf("Get() after overwrite = %q, want %q", data, "v2")
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Get() after delete error = %v, want ErrNotExist", err)
	}

	// Deleting a missing key is not an error
	if err := m.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestMemoryExists(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	exists, err := m.Exists(ctx, "k")
	if err != nil || exists {
		t.Errorf("Exists(missing) = %v, %v", exists, err)
	}

	if err := m.Put(ctx, "k", nil); err != nil {
		t.Fatal(err)
	}
	exists, err = m.Exists(ctx, "k")
	if err != nil || !exists {
		t.Errorf("Exists(present) = %v, %v", exists, err)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Put(ctx, "k", []byte("stable")); err != nil {
		t.Fatal(err)
	}
	data, _ := m.Get(ctx, "k")
	data[0] = 'X'

	data2, _ := m.Get(ctx, "k")
	if string(data2) != "stable" {
		t.Errorf("stored bytes mutated through returned slice: %q", data2)
	}
}

func TestMemoryURLs(t *testing.T) {
	m := NewMemory()

	url, err := m.SignedPutURL(context.Background(), "attachments/x.pdf", 15*time.Minute)
	if err != nil {
		t.Fatalf("SignedPutURL() error = %v", err)
	}
	if !strings.Contains(url, "attachments/x.pdf") {
		t.Errorf("SignedPutURL() = %q", url)
	}

	if got := m.PublicURL("attachments/x.pdf"); !strings.Contains(got, "attachments/x.pdf") {
		t.Errorf("PublicURL() = %q", got)
	}
}
