package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
)

func serveWithRole(t *testing.T, role string, allowed ...enums.ActorRole) int {
	t.Helper()

	handler := RequireRole(nil, allowed...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), "op-1", "Maria", role))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp.Code
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	if code := serveWithRole(t, string(enums.RoleRepartidor), enums.RoleRepartidor); code != http.StatusOK {
		t.Fatalf("expected 200 got %d", code)
	}
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	if code := serveWithRole(t, string(enums.RoleOperario), enums.RoleRepartidor); code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", code)
	}
}

func TestRequireRoleAdminAlwaysPasses(t *testing.T) {
	if code := serveWithRole(t, string(enums.RoleAdmin), enums.RoleRepartidor); code != http.StatusOK {
		t.Fatalf("expected 200 got %d", code)
	}
}

func TestRequireRoleRejectsMissingActor(t *testing.T) {
	handler := RequireRole(nil, enums.RoleOperario)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
