// Package verify answers "does this linked conversation still exist?"
// for display pruning. Verification is best-effort and fails open: when
// existence cannot be determined (network error, timeout, no verifier),
// the branch is treated as still existing rather than silently dropping
// a user's recorded link.
package verify

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Verifier checks whether the conversation behind a URL still exists.
// A false result must mean a definitive negative; uncertainty is an
// error, which callers treat as "assume it exists".
type Verifier interface {
	Verify(ctx context.Context, url string) (bool, error)
}

type entry struct {
	value      bool
	observedAt time.Time
}

// Cache memoizes verification results for a bounded lifetime. The clock
// is injected so expiry is testable without real timers.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewCache returns a cache with the given TTL. A nil now falls back to
// time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: map[string]entry{},
	}
}

// Exists reports whether the conversation at url still exists,
// consulting the cache first. A nil verifier or a verifier error fails
// open; fail-open results are not cached so a later call can retry.
func (c *Cache) Exists(ctx context.Context, v Verifier, url string) bool {
	if e, ok := c.entries[url]; ok && c.now().Sub(e.observedAt) < c.ttl {
		return e.value
	}
	if v == nil {
		return true
	}
	exists, err := v.Verify(ctx, url)
	if err != nil {
		return true
	}
	c.entries[url] = entry{value: exists, observedAt: c.now()}
	return exists
}

// Invalidate drops the cached result for a URL.
func (c *Cache) Invalidate(url string) {
	delete(c.entries, url)
}

// HTTPProber verifies existence with a HEAD request. Only a definitive
// 404 or 410 counts as gone; transport failures and other statuses are
// errors so the caller fails open.
type HTTPProber struct {
	Client  *http.Client
	Timeout time.Duration
}

// Verify implements Verifier.
func (p *HTTPProber) Verify(ctx context.Context, url string) (bool, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, fmt.Errorf("invalid probe url: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("probe failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return false, nil
	default:
		if resp.StatusCode >= 200 && resp.StatusCode < 400 {
			return true, nil
		}
		return false, fmt.Errorf("probe returned inconclusive status %d", resp.StatusCode)
	}
}
