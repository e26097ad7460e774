package memcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	if _, err := c.Get(ctx, "bike:1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	src := []byte(`{"id":"1"}`)
	if err := c.Set(ctx, "bike:1", src, 60); err != nil {
		t.Fatal(err)
	}
	src[0] = 'x'

	got, err := c.Get(ctx, "bike:1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"id":"1"}` {
		t.Errorf("stored value aliased caller buffer: %s", got)
	}

	if err := c.Delete(ctx, "bike:1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(ctx, "bike:1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), 0)
	// A zero TTL maps to go-cache's default, which is no expiration.
	if _, err := c.Get(ctx, "k"); err != nil {
		t.Errorf("zero ttl entry should persist: %v", err)
	}
}
