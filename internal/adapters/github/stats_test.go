package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// repoMux serves a minimal slice of the REST v3 surface for acme/widget
func repoMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"full_name": "acme/widget",
			"stargazers_count": 1200,
			"forks_count": 90,
			"open_issues_count": 12,
			"pushed_at": "2026-08-20T12:00:00Z",
			"license": {"spdx_id": "MIT"}
		}`)
	})
	mux.HandleFunc("/repos/acme/widget/contributors", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"login":"a"},{"login":"b"},{"login":"c"}]`)
	})
	mux.HandleFunc("/repos/acme/widget/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"number": 1, "merged_at": "2026-08-01T00:00:00Z"},
			{"number": 2, "merged_at": ""},
			{"number": 3, "merged_at": "2026-08-02T00:00:00Z"}
		]`)
	})
	mux.HandleFunc("/repos/acme/widget/pulls/1/reviews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 11}]`)
	})
	mux.HandleFunc("/repos/acme/widget/pulls/3/reviews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/repos/acme/widget/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"created_at": "2026-08-01T00:00:00Z", "closed_at": "2026-08-03T00:00:00Z"},
			{"created_at": "2026-08-01T00:00:00Z", "closed_at": "2026-08-09T00:00:00Z",
			 "pull_request": {"url": "x"}}
		]`)
	})
	mux.HandleFunc("/repos/acme/widget/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		manifest := `{"dependencies": {"a": "1.2.3", "b": "^2.0.0"}}`
		fmt.Fprintf(w, `{"encoding": "base64", "content": %q}`,
			base64.StdEncoding.EncodeToString([]byte(manifest)))
	})
	return mux
}

func TestSignalsFull(t *testing.T) {
	srv := httptest.NewServer(repoMux(t))
	defer srv.Close()

	c := testClient(t, srv)
	c.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	sig, err := c.Signals(context.Background(), "acme", "widget")
	if err != nil {
		t.Fatalf("Signals(): %v", err)
	}

	if sig.Stars != 1200 || sig.Forks != 90 || sig.OpenIssues != 12 {
		t.Fatalf("repo numbers wrong: %+v", sig)
	}
	if sig.License != "MIT" {
		t.Fatalf("license wrong: %q", sig.License)
	}
	if sig.DaysSincePush != 10 {
		t.Fatalf("days since push = %d, want 10", sig.DaysSincePush)
	}
	if sig.Contributors != 3 {
		t.Fatalf("contributors = %d, want 3", sig.Contributors)
	}
	if sig.ReviewedPRFraction != 0.5 {
		t.Fatalf("reviewed fraction = %v, want 0.5", sig.ReviewedPRFraction)
	}
	if sig.IssueResponseDays != 2 {
		t.Fatalf("issue response days = %v, want 2", sig.IssueResponseDays)
	}
	if sig.PinnedDepFraction != 0.5 {
		t.Fatalf("pinned fraction = %v, want 0.5", sig.PinnedDepFraction)
	}
}

func TestSignalsDegradeToSentinels(t *testing.T) {
	// only the repository document exists; every sub-fetch 404s
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stargazers_count": 10, "forks_count": 1, "open_issues_count": 0}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	sig, err := testClient(t, srv).Signals(context.Background(), "acme", "widget")
	if err != nil {
		t.Fatalf("Signals(): %v", err)
	}
	if sig.DaysSincePush != -1 {
		t.Fatalf("missing pushed_at must stay -1, got %d", sig.DaysSincePush)
	}
	if sig.Contributors != 0 {
		t.Fatalf("missing contributors must stay 0, got %d", sig.Contributors)
	}
	if sig.ReviewedPRFraction != -1 || sig.IssueResponseDays != -1 || sig.PinnedDepFraction != -1 {
		t.Fatalf("missing sub-fetches must keep sentinels: %+v", sig)
	}
	if sig.License != "" {
		t.Fatalf("absent license must stay empty, got %q", sig.License)
	}
}

func TestSignalsRepoMissingIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := testClient(t, srv).Signals(context.Background(), "ghost", "nope"); err == nil {
		t.Fatalf("missing repository document must fail the fetch")
	}
}
