package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/devmart/media-pipeline-go/internal/apictx"
)

type mockLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.keys = append(m.keys, key)
	return m.allowed, m.err
}

func serveWithUser(t *testing.T, limiter *mockLimiter, uid uuid.UUID, withUser bool) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if withUser {
		req = req.WithContext(context.WithValue(req.Context(), apictx.AuthUserIDKey, uid))
	}
	rec := httptest.NewRecorder()

	WithRateLimit(limiter)(next).ServeHTTP(rec, req)
	return rec, nextCalled
}

func TestWithRateLimitAllows(t *testing.T) {
	uid := uuid.New()
	limiter := &mockLimiter{allowed: true}

	rec, nextCalled := serveWithUser(t, limiter, uid, true)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusNoContent)
	}
	if !nextCalled {
		t.Fatal("expected next handler to be called")
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "upload:"+uid.String() {
		t.Fatalf("limiter keys = %v; want one key scoped to the user", limiter.keys)
	}
}

func TestWithRateLimitBlocks(t *testing.T) {
	limiter := &mockLimiter{allowed: false}

	rec, nextCalled := serveWithUser(t, limiter, uuid.New(), true)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusTooManyRequests)
	}
	if nextCalled {
		t.Fatal("next handler should not run when blocked")
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("Retry-After = %q; want %q", got, "60")
	}
}

func TestWithRateLimitFailsOpen(t *testing.T) {
	limiter := &mockLimiter{err: errors.New("redis down")}

	rec, nextCalled := serveWithUser(t, limiter, uuid.New(), true)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusNoContent)
	}
	if !nextCalled {
		t.Fatal("a failing limiter must not block the request")
	}
}

func TestWithRateLimitRequiresAuthContext(t *testing.T) {
	limiter := &mockLimiter{allowed: true}

	rec, nextCalled := serveWithUser(t, limiter, uuid.New(), false)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
	}
	if nextCalled {
		t.Fatal("next handler should not run without an authenticated user")
	}
	if len(limiter.keys) != 0 {
		t.Fatalf("limiter should not be consulted, got keys %v", limiter.keys)
	}
}
