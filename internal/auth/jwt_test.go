package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *TokenManager {
	return NewTokenManager("test-secret", accessTTL, refreshTTL)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour, 24*time.Hour)

	raw, err := m.GenerateAccessToken(7, "a@example.com", "drawer")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateAccessToken(raw)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "a@example.com" || claims.Nickname != "drawer" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Subject != "7" {
		t.Fatalf("subject = %q, want user id", claims.Subject)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour, 24*time.Hour)
	raw, err := m.GenerateAccessToken(1, "a@example.com", "a")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := NewTokenManager("another-secret", time.Hour, 24*time.Hour)
	if _, err := other.ValidateAccessToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredTokensAreDistinguished(t *testing.T) {
	m := newTestManager(-time.Minute, -time.Minute)

	access, err := m.GenerateAccessToken(1, "a@example.com", "a")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := m.ValidateAccessToken(access); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("access err = %v, want ErrExpiredToken", err)
	}

	refresh, err := m.GenerateRefreshToken(1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if _, err := m.ValidateRefreshToken(refresh); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("refresh err = %v, want ErrExpiredToken", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour, 24*time.Hour)

	raw, err := m.GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	userID, err := m.ValidateRefreshToken(raw)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if userID != 42 {
		t.Fatalf("userID = %d, want 42", userID)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := newTestManager(time.Hour, 24*time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.ValidateAccessToken(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%q: err = %v, want ErrInvalidToken", raw, err)
		}
	}
}
