package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
)

func TestSessionHandler_Get(t *testing.T) {
	m := newManager()
	loggedIn(t, m, sidOf("s1"), service.DemoReceptionistEmail)
	h := NewSessionHandler()

	rec, err := serve(t, m, h.Get, call{method: http.MethodGet, target: "/v1/session", sid: sidOf("s1")})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if snap.State != domain.StateAuthenticated || snap.Identity == nil || snap.Identity.Role != domain.RoleReceptionist {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSessionHandler_GetAnonymous(t *testing.T) {
	rec, err := serve(t, newManager(), NewSessionHandler().Get, call{method: http.MethodGet, target: "/v1/session"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["state"] != "unauthenticated" {
		t.Fatalf("expected unauthenticated, got %v", resp["state"])
	}
	if _, ok := resp["user"]; ok {
		t.Fatal("anonymous snapshot must not carry a user")
	}
}

func TestSessionHandler_Permission(t *testing.T) {
	m := newManager()
	loggedIn(t, m, sidOf("s1"), service.DemoManagerEmail)
	h := NewSessionHandler()

	tests := []struct {
		sid        string
		capability string
		want       bool
	}{
		{"s1", "view_reports", true},
		{"s1", "check_in_guest", false},
		{"", "view_services", false},
	}

	for _, tt := range tests {
		rec, err := serve(t, m, h.Permission, call{
			method: http.MethodGet,
			target: "/v1/session/permissions/" + tt.capability,
			sid:    sidOf(tt.sid),
			params: map[string]string{"capability": tt.capability},
		})
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp permissionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.Allowed != tt.want || string(resp.Capability) != tt.capability {
			t.Errorf("%q/%s: got %+v, want allowed=%v", tt.sid, tt.capability, resp, tt.want)
		}
	}
}
