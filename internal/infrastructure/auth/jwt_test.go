package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domerrors "github.com/tenantgate/tenantgate/internal/domain/errors"
)

const (
	testIssuer   = "tenantgate-test"
	testAudience = "tenantgate-api"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(userID uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   userID.String(),
		"email": "user@example.com",
		"iss":   testIssuer,
		"aud":   testAudience,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestVerifyValidToken(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)
	userID := uuid.New()

	claims, err := v.Verify(signToken(t, key, validClaims(userID)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID.UUID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)

	claims := validClaims(uuid.New())
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := v.Verify(signToken(t, key, claims))
	if !errors.Is(err, domerrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyExpiredWithinLeeway(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, 2*time.Minute)

	claims := validClaims(uuid.New())
	claims["exp"] = time.Now().Add(-30 * time.Second).Unix()

	if _, err := v.Verify(signToken(t, key, claims)); err != nil {
		t.Fatalf("token inside the leeway window should verify, got %v", err)
	}
}

func TestVerifyMissingExpiry(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)

	claims := validClaims(uuid.New())
	delete(claims, "exp")

	_, err := v.Verify(signToken(t, key, claims))
	if !errors.Is(err, domerrors.ErrTokenExpired) {
		t.Fatalf("tokens without exp must be rejected, got %v", err)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)

	claims := validClaims(uuid.New())
	claims["iss"] = "someone-else"

	_, err := v.Verify(signToken(t, key, claims))
	if !errors.Is(err, domerrors.ErrTokenIssuerMismatch) {
		t.Fatalf("expected ErrTokenIssuerMismatch, got %v", err)
	}
}

func TestVerifyWrongAudience(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)

	claims := validClaims(uuid.New())
	claims["aud"] = "another-service"

	_, err := v.Verify(signToken(t, key, claims))
	if !errors.Is(err, domerrors.ErrTokenIssuerMismatch) {
		t.Fatalf("expected ErrTokenIssuerMismatch, got %v", err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	key := newTestKey(t)
	otherKey := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)

	_, err := v.Verify(signToken(t, otherKey, validClaims(uuid.New())))
	if !errors.Is(err, domerrors.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerifyRejectsHMAC(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(uuid.New()))
	signed, err := token.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = v.Verify(signed)
	if !errors.Is(err, domerrors.ErrTokenSignatureInvalid) {
		t.Fatalf("HS256 tokens must be rejected as signature failures, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := v.Verify(raw); !errors.Is(err, domerrors.ErrTokenMalformed) {
			t.Errorf("Verify(%q): expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

func TestVerifyNonUUIDSubject(t *testing.T) {
	key := newTestKey(t)
	v := NewVerifier(&key.PublicKey, testIssuer, testAudience, time.Second)

	claims := validClaims(uuid.New())
	claims["sub"] = "service-account-7"

	_, err := v.Verify(signToken(t, key, claims))
	if !errors.Is(err, domerrors.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
