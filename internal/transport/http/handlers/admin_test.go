package handlers_test

import (
	"net/http"
	"testing"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/handlers"
)

func TestAdminListUsersIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "emp-1", "emp@example.com", domain.RoleEmployee)
	_, supportToken := env.seedUser(t, "sup-1", "sup@example.com", domain.RoleSupport)
	_, adminToken := env.seedUser(t, "adm-1", "adm@example.com", domain.RoleAdmin)

	if rr := env.do(t, http.MethodGet, "/admin/users", supportToken, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for support, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/admin/users", "", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %d", rr.Code)
	}

	rr := env.do(t, http.MethodGet, "/admin/users", adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rr.Code, rr.Body.String())
	}
	users := decodeJSON[[]handlers.UserSummary](t, rr)
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}

func TestAdminChangeRolePromotesEmployee(t *testing.T) {
	env := newTestEnv(t)
	_, empToken := env.seedUser(t, "emp-1", "emp@example.com", domain.RoleEmployee)
	_, adminToken := env.seedUser(t, "adm-1", "adm@example.com", domain.RoleAdmin)

	if rr := env.do(t, http.MethodGet, "/tickets", empToken, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before promotion, got %d", rr.Code)
	}

	rr := env.do(t, http.MethodPut, "/admin/users/emp-1/role", adminToken,
		handlers.ChangeRoleRequest{Role: "SUPPORT"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if updated := decodeJSON[handlers.UserSummary](t, rr); updated.Role != string(domain.RoleSupport) {
		t.Fatalf("expected SUPPORT, got %q", updated.Role)
	}

	// The principal is rebuilt from the user record per request, so the
	// promotion takes effect without a fresh token.
	if rr := env.do(t, http.MethodGet, "/tickets", empToken, nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 after promotion, got %d", rr.Code)
	}
}

func TestAdminChangeRoleValidation(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "adm-1", "adm@example.com", domain.RoleAdmin)

	rr := env.do(t, http.MethodPut, "/admin/users/adm-1/role", adminToken,
		handlers.ChangeRoleRequest{Role: "SUPERUSER"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPut, "/admin/users/ghost/role", adminToken,
		handlers.ChangeRoleRequest{Role: "ADMIN"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rr.Code)
	}
}

func TestAdminChangeRoleRejectsSupport(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "emp-1", "emp@example.com", domain.RoleEmployee)
	_, supportToken := env.seedUser(t, "sup-1", "sup@example.com", domain.RoleSupport)

	rr := env.do(t, http.MethodPut, "/admin/users/emp-1/role", supportToken,
		handlers.ChangeRoleRequest{Role: "ADMIN"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
