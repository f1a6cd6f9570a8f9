package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/spabook/portal/internal/core/domain"
)

func TestSessionObserver(t *testing.T) {
	before := testutil.ToFloat64(SessionChangesTotal.WithLabelValues(string(domain.ChangeLogin)))

	active := 3
	observe := SessionObserver(func() int { return active })
	observe(domain.SessionChange{Kind: domain.ChangeLogin})

	if got := testutil.ToFloat64(SessionChangesTotal.WithLabelValues(string(domain.ChangeLogin))); got != before+1 {
		t.Fatalf("expected login counter %v, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(ActiveSessions); got != 3 {
		t.Fatalf("expected 3 active sessions, got %v", got)
	}

	active = 2
	observe(domain.SessionChange{Kind: domain.ChangeLogout})
	if got := testutil.ToFloat64(ActiveSessions); got != 2 {
		t.Fatalf("expected 2 active sessions, got %v", got)
	}
}
