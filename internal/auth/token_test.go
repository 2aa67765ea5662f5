package auth

import (
	"context"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue(42, "gabi@example.com", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ac, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ac.UserID != 42 {
		t.Errorf("UserID = %d, want 42", ac.UserID)
	}
	if ac.Email != "gabi@example.com" {
		t.Errorf("Email = %q", ac.Email)
	}
	if ac.Role != "admin" {
		t.Errorf("Role = %q, want admin", ac.Role)
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue(1, "x@example.com", "member")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tm.Verify(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(1, "x@example.com", "member")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	if _, err := tm.Verify("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: 7, Role: "admin"})
	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin for admin role")
	}

	if UserID(context.Background()) != 0 {
		t.Error("expected 0 for missing context")
	}
	if IsAdmin(context.Background()) {
		t.Error("expected false for missing context")
	}
}
