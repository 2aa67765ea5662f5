package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/auth"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/database"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/middleware"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthHandler(store.NewUserStore(db), tokens, middleware.NewRateLimiter(), discardLogger())
}

func registerUser(t *testing.T, h *AuthHandler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `","name":"Alice"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	return rec
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	h := newAuthHandler(t)

	rec := registerUser(t, h, "alice@example.com", "supersecret")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("expected a session cookie")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if strings.Contains(rec.Body.String(), "supersecret") {
		t.Error("response must not echo the password")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h := newAuthHandler(t)

	rec := registerUser(t, h, "alice@example.com", "short")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAuthHandler(t)

	if rec := registerUser(t, h, "alice@example.com", "supersecret"); rec.Code != http.StatusCreated {
		t.Fatalf("first register: %d", rec.Code)
	}
	if rec := registerUser(t, h, "alice@example.com", "othersecret"); rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthHandler(t)
	registerUser(t, h, "alice@example.com", "supersecret")

	body := `{"email":"alice@example.com","password":"wrong-password"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	h := newAuthHandler(t)
	registerUser(t, h, "alice@example.com", "supersecret")

	body := `{"email":"Alice@Example.com","password":"supersecret"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (email lookup is case-insensitive): %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on login")
	}
}

func TestMeReturnsAuthenticatedUser(t *testing.T) {
	h := newAuthHandler(t)
	registerUser(t, h, "alice@example.com", "supersecret")

	req := httptest.NewRequest("GET", "/api/me", nil)
	ctx := auth.WithAuth(req.Context(), auth.AuthContext{UserID: 1, Email: "alice@example.com", Role: "member"})
	rec := httptest.NewRecorder()
	h.Me(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
