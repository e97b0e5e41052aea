package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"thinkify/internal/models"
)

func requestWithUser(role models.Role) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	user := &models.User{ID: uuid.New(), Username: "tester", Role: role, IsActive: true}
	return r.WithContext(WithUser(r.Context(), user))
}

func TestRequireUser(t *testing.T) {
	var called bool
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	t.Run("anonymous gets 401", func(t *testing.T) {
		called = false
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/protected", nil))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if called {
			t.Error("next handler should not run for anonymous requests")
		}
		if !strings.Contains(rr.Body.String(), `"success":false`) {
			t.Errorf("body should use the error envelope: %s", rr.Body.String())
		}
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		called = false
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestWithUser(models.RoleUser))

		if !called {
			t.Error("next handler should run for authenticated requests")
		}
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous gets 401", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestWithUser(models.RoleUser))
		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", rr.Code)
		}
	})

	t.Run("allowed role passes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestWithUser(models.RoleAdmin))
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

func TestUserFromCtxAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if UserFromCtx(r.Context()) != nil {
		t.Error("expected nil user for anonymous request")
	}
}
