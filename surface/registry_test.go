// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/spans"
)

func imageFactory(opts ...BackendOption) (spans.Backend, error) {
	return NewImageBackend(opts...), nil
}

// TestRegistryRegister tests backend registration.
func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, imageFactory, nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if entry.Name != "test" {
		t.Errorf("Name = %s, want test", entry.Name)
	}
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50", entry.Priority)
	}
	if !entry.Available() {
		t.Error("backend should be available (nil Available func)")
	}
}

// TestRegistryUnregister tests backend removal.
func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register("temp", 10, imageFactory, nil)

	if _, ok := r.Get("temp"); !ok {
		t.Fatal("backend should exist before unregister")
	}
	r.Unregister("temp")
	if _, ok := r.Get("temp"); ok {
		t.Error("backend should not exist after unregister")
	}
}

// TestRegistryList tests priority ordering.
func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, imageFactory, nil)
	r.Register("high", 100, imageFactory, nil)
	r.Register("mid", 50, imageFactory, nil)

	list := r.List()
	want := []string{"high", "mid", "low"}
	if len(list) != len(want) {
		t.Fatalf("List() = %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, list[i], want[i])
		}
	}
}

// TestRegistryAvailable tests filtering by availability.
func TestRegistryAvailable(t *testing.T) {
	r := NewRegistry()
	r.Register("available", 100, imageFactory, func() bool { return true })
	r.Register("unavailable", 200, imageFactory, func() bool { return false })

	available := r.Available()
	if len(available) != 1 || available[0] != "available" {
		t.Errorf("Available() = %v, want [available]", available)
	}
}

// TestRegistryNewBackend tests creating backends with options.
func TestRegistryNewBackend(t *testing.T) {
	r := NewDefaultRegistry()

	b, err := r.NewBackend(WithLerp(false))
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if b.HasLerp() {
		t.Error("HasLerp() = true, want false")
	}

	b, err = r.NewBackendByName("image")
	if err != nil {
		t.Fatalf("NewBackendByName failed: %v", err)
	}
	if !b.HasLerp() {
		t.Error("HasLerp() = false, want true")
	}
}

// TestRegistryErrors tests the typed errors.
func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()

	if _, err := r.NewBackend(); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("NewBackend() error = %v, want ErrNoBackendAvailable", err)
	}

	_, err := r.NewBackendByName("nonexistent")
	var notFound *BackendNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "nonexistent" {
		t.Errorf("NewBackendByName() error = %v, want BackendNotFoundError", err)
	}

	r.Register("off", 50, imageFactory, func() bool { return false })
	_, err = r.NewBackendByName("off")
	var unavailable *BackendUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("NewBackendByName() error = %T, want BackendUnavailableError", err)
	}
}

// TestRegistryFallback tests that a failing backend is skipped.
func TestRegistryFallback(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register("broken", 100, func(...BackendOption) (spans.Backend, error) {
		return nil, errors.New("no device")
	}, nil)

	b, err := r.NewBackend()
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if _, ok := b.(*ImageBackend); !ok {
		t.Errorf("NewBackend() = %T, want *ImageBackend", b)
	}
}
