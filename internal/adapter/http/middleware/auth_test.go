package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/infrastructure/auth"
)

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func okHandler(sawUser **domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := domain.UserFromContext(r.Context()); ok {
			*sawUser = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtManager := newTestJWTManager()
	token, err := jwtManager.Generate(&domain.User{
		ID:    "creator-1",
		Email: "creator@example.com",
		Role:  domain.RoleCreator,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var sawUser *domain.User
	handler := AuthMiddleware(jwtManager)(okHandler(&sawUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sawUser == nil || sawUser.ID != "creator-1" || sawUser.Role != domain.RoleCreator {
		t.Fatalf("user not placed on context: %+v", sawUser)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	var sawUser *domain.User
	handler := AuthMiddleware(newTestJWTManager())(okHandler(&sawUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	var sawUser *domain.User
	handler := AuthMiddleware(newTestJWTManager())(okHandler(&sawUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		role     domain.Role
		allowed  []domain.Role
		wantCode int
	}{
		{"admin passes admin gate", domain.RoleAdmin, []domain.Role{domain.RoleAdmin}, http.StatusOK},
		{"creator blocked from admin gate", domain.RoleCreator, []domain.Role{domain.RoleAdmin}, http.StatusForbidden},
		{"creator passes creator gate", domain.RoleCreator, []domain.Role{domain.RoleCreator}, http.StatusOK},
		{"fan passes fan-or-creator gate", domain.RoleFan, []domain.Role{domain.RoleFan, domain.RoleCreator}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireRole(tc.allowed...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(domain.ContextWithUser(req.Context(), &domain.User{ID: "u", Role: tc.role}))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
		})
	}
}

func TestRequireRole_NoUser(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
