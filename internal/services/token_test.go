package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/novelsdb/internal/services"
)

func newIssuer(t *testing.T, secret string) *services.TokenIssuer {
	t.Helper()
	issuer, err := services.NewTokenIssuer(secret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}
	return issuer
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := newIssuer(t, "secret")

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user 42, got %d", userID)
	}
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(t, "secret").WithClock(func() time.Time { return issued })

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	justBefore := issuer.WithClock(func() time.Time { return issued.Add(59 * time.Minute) })
	if _, err := justBefore.Verify(token); err != nil {
		t.Errorf("Expected token to be valid before expiry, got %v", err)
	}

	after := issuer.WithClock(func() time.Time { return issued.Add(61 * time.Minute) })
	if _, err := after.Verify(token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestTokenWrongKey(t *testing.T) {
	token, err := newIssuer(t, "secret").Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := newIssuer(t, "other-secret").Verify(token); err == nil {
		t.Error("Expected token signed with another key to be rejected")
	}
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"id": 1, "exp": time.Now().Add(time.Hour).Unix()}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to build unsigned token: %v", err)
	}
	if _, err := newIssuer(t, "secret").Verify(unsigned); err == nil {
		t.Error("Expected alg none token to be rejected")
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("Failed to build HS512 token: %v", err)
	}
	if _, err := newIssuer(t, "secret").Verify(hs512); err == nil {
		t.Error("Expected HS512 token to be rejected")
	}
}

func TestTokenRequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 1}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("Failed to build token: %v", err)
	}
	if _, err := newIssuer(t, "secret").Verify(token); err == nil {
		t.Error("Expected token without exp to be rejected")
	}
}

func TestTokenMalformed(t *testing.T) {
	_, err := newIssuer(t, "secret").Verify("not.a.token")
	if err == nil || !strings.Contains(err.Error(), "malformed") {
		t.Errorf("Expected malformed token error, got %v", err)
	}
}

func TestNewTokenIssuerRejectsEmptySecret(t *testing.T) {
	if _, err := services.NewTokenIssuer("", time.Hour); err == nil {
		t.Error("Expected empty secret to be rejected")
	}
	if _, err := services.NewTokenIssuer("secret", 0); err == nil {
		t.Error("Expected zero ttl to be rejected")
	}
}
