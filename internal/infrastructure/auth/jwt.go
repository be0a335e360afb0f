package auth

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/domain"
	domerrors "github.com/tenantgate/tenantgate/internal/domain/errors"
)

// DefaultLeeway bounds the clock skew tolerated when checking expiry.
const DefaultLeeway = 2 * time.Minute

// Verifier implements ports.TokenVerifier for RS256 tokens. Verification is
// pure: no database access, no side effects. Tokens carry identity claims
// only; tenant scope is resolved per request from the organization header.
type Verifier struct {
	publicKey *rsa.PublicKey
	issuer    string
	audience  string
	leeway    time.Duration
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// NewVerifier creates a verifier bound to the configured key, issuer and
// audience. leeway <= 0 falls back to DefaultLeeway.
func NewVerifier(publicKey *rsa.PublicKey, issuer, audience string, leeway time.Duration) *Verifier {
	if leeway <= 0 {
		leeway = DefaultLeeway
	}
	return &Verifier{
		publicKey: publicKey,
		issuer:    issuer,
		audience:  audience,
		leeway:    leeway,
	}
}

// Verify checks, in order: well-formed credential, signature, issuer and
// audience, expiry. Any violated check yields the matching sentinel error
// and never a partial result.
func (v *Verifier) Verify(tokenString string) (*ports.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return nil, domerrors.ErrTokenMalformed
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domerrors.ErrTokenMalformed
	}
	return &ports.TokenClaims{
		UserID: domain.NewUserID(userID),
		Email:  claims.Email,
	}, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	return v.publicKey, nil
}

// mapJWTError converts jwt/v5 parse errors to the sentinel taxonomy. Check
// order mirrors verification order: malformed, signature, issuer/audience,
// expiry. Anything unrecognized counts as a signature failure (fail closed).
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domerrors.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domerrors.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return domerrors.ErrTokenIssuerMismatch
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return domerrors.ErrTokenExpired
	}
	return domerrors.ErrTokenSignatureInvalid
}

var _ ports.TokenVerifier = (*Verifier)(nil)
