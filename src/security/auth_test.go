package security

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(testSecret, time.Hour)

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	userID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user 42, got %d", userID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService(testSecret, time.Hour).GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	other := NewAuthService("a-completely-different-secret-key-456", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewAuthService(testSecret, -time.Minute)

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected validation of an expired token to fail")
	}
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewAuthService(testSecret, time.Hour)
	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected validation of garbage to fail")
	}
}
