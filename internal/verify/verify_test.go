package verify

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeVerifier struct {
	result bool
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(ctx context.Context, url string) (bool, error) {
	f.calls++
	return f.result, f.err
}

func TestExists_CachesWithinTTL(t *testing.T) {
	clock := time.Unix(0, 0)
	c := NewCache(time.Minute, func() time.Time { return clock })
	v := &fakeVerifier{result: false}

	if c.Exists(context.Background(), v, "u") {
		t.Error("verifier said gone, Exists said true")
	}
	if v.calls != 1 {
		t.Fatalf("calls = %d, want 1", v.calls)
	}

	// Within TTL: cached, no second probe.
	clock = clock.Add(30 * time.Second)
	c.Exists(context.Background(), v, "u")
	if v.calls != 1 {
		t.Errorf("calls = %d, want 1 (cached)", v.calls)
	}

	// Past TTL: probe again.
	clock = clock.Add(31 * time.Second)
	c.Exists(context.Background(), v, "u")
	if v.calls != 2 {
		t.Errorf("calls = %d, want 2 (expired)", v.calls)
	}
}

func TestExists_FailsOpenOnError(t *testing.T) {
	c := NewCache(time.Minute, nil)
	v := &fakeVerifier{err: errors.New("network down")}

	if !c.Exists(context.Background(), v, "u") {
		t.Error("verifier error should fail open")
	}
	// Errors are not cached; a later call retries.
	c.Exists(context.Background(), v, "u")
	if v.calls != 2 {
		t.Errorf("calls = %d, want 2 (errors uncached)", v.calls)
	}
}

func TestExists_NilVerifierFailsOpen(t *testing.T) {
	c := NewCache(time.Minute, nil)
	if !c.Exists(context.Background(), nil, "u") {
		t.Error("nil verifier should fail open")
	}
}

func TestInvalidate(t *testing.T) {
	clock := time.Unix(0, 0)
	c := NewCache(time.Hour, func() time.Time { return clock })
	v := &fakeVerifier{result: true}

	c.Exists(context.Background(), v, "u")
	c.Invalidate("u")
	c.Exists(context.Background(), v, "u")
	if v.calls != 2 {
		t.Errorf("calls = %d, want 2 after invalidation", v.calls)
	}
}
