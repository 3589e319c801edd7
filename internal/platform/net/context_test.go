package net_test

import (
	"context"
	"testing"

	pnet "trove/internal/platform/net"
)

func TestWithRequestAndGetter(t *testing.T) {
	base := context.Background()

	ctx := pnet.WithRequest(base, "req-123")
	if got := pnet.RequestID(ctx); got != "req-123" {
		t.Fatalf("RequestID got %q want %q", got, "req-123")
	}

	if ctx := pnet.WithRequest(base, ""); ctx != base {
		t.Fatalf("empty id should not allocate a new context")
	}
	if got := pnet.RequestID(base); got != "" {
		t.Fatalf("RequestID on bare context got %q want empty", got)
	}
}

func TestWithUserAndGetter(t *testing.T) {
	base := context.Background()

	ctx := pnet.WithUser(base, "user-9")
	if got := pnet.UserID(ctx); got != "user-9" {
		t.Fatalf("UserID got %q want %q", got, "user-9")
	}
	if got := pnet.UserID(base); got != "" {
		t.Fatalf("UserID on bare context got %q want empty", got)
	}
}
