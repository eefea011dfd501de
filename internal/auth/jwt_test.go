package auth

import (
	"testing"
	"time"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := NewSessionToken("secret", "console-test", time.Hour, Claims{
		SessionID: "s1",
		UserID:    42,
		Role:      model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseSessionToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != "s1" || claims.UserID != 42 || claims.Role != model.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "console-test" {
		t.Fatalf("expected issuer, got %s", claims.Issuer)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := NewSessionToken("secret", "console-test", time.Hour, Claims{SessionID: "s1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSessionToken("other-secret", token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := NewSessionToken("secret", "console-test", -time.Minute, Claims{SessionID: "s1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSessionToken("secret", token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}
