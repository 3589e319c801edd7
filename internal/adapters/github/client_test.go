package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "trove/internal/platform/errors"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := NewClient(Options{
		BaseURL:    srv.URL,
		MaxRetries: 2,
		RetryBase:  time.Millisecond,
	})
	c.sleep = func(time.Duration) {}
	return c
}

func TestDoOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.github+json" {
			t.Errorf("missing accept header")
		}
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("missing user agent")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	resp, err := testClient(t, srv).Do(context.Background(), http.MethodGet, "/repos/a/b")
	if err != nil {
		t.Fatalf("Do(): %v", err)
	}
	_ = resp.Body.Close()
}

func TestDoNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Do(context.Background(), http.MethodGet, "/repos/a/b")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not-found code, got %v", err)
	}
}

func TestDoRetriesTransient(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	resp, err := testClient(t, srv).Do(context.Background(), http.MethodGet, "/x")
	if err != nil {
		t.Fatalf("Do() after transient errors: %v", err)
	}
	_ = resp.Body.Close()
	if hits != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits)
	}
}

func TestDoRetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Do(context.Background(), http.MethodGet, "/x")
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream code after exhausted retries, got %v", err)
	}
}

func TestDoRateLimited(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var slept time.Duration
	c := testClient(t, srv)
	c.sleep = func(d time.Duration) { slept += d }

	resp, err := c.Do(context.Background(), http.MethodGet, "/x")
	if err != nil {
		t.Fatalf("Do() after rate limit: %v", err)
	}
	_ = resp.Body.Close()
	if slept < time.Second {
		t.Fatalf("Retry-After not honored, slept %v", slept)
	}
}

func TestDoCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testClient(t, srv).Do(ctx, http.MethodGet, "/x"); err == nil {
		t.Fatalf("canceled context must fail")
	}
}

func TestTokenRotation(t *testing.T) {
	c := NewClient(Options{TokensCSV: "t1, t2,t3"})
	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		seen[c.getToken()] = true
	}
	if len(seen) != 3 {
		t.Fatalf("rotation should cycle all 3 tokens, saw %d", len(seen))
	}
}

func TestComputeWait(t *testing.T) {
	now := time.Unix(1000, 0)
	if d := computeWait(0, time.Unix(1060, 0), 0, now); d != time.Minute {
		t.Fatalf("reset wait = %v, want 1m", d)
	}
	if d := computeWait(5, time.Time{}, 7, now); d != 7*time.Second {
		t.Fatalf("retry-after wait = %v, want 7s", d)
	}
	if d := computeWait(5, time.Time{}, 0, now); d != 0 {
		t.Fatalf("no headers should mean no forced wait, got %v", d)
	}
}
