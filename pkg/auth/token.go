// Package auth issues and verifies the signed tokens that carry the
// authenticated principal (user id + role) across requests.
package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/viniduminsara/ClearLens-Backend/pkg/config"
)

const roleClaim = "role"

// Claims is the verified identity extracted from a token.
type Claims struct {
	UserID uuid.UUID
	Role   string
}

type Verifier interface {
	Verify(tokenString string) (Claims, error)
}

// TokenIssuer signs and verifies HS256 tokens with a shared secret.
type TokenIssuer struct {
	key    jwk.Key
	issuer string
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer from the JWT configuration.
// Fails fast when the secret cannot be used as an HMAC key.
func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to import JWT signing key: %w", err)
	}
	return &TokenIssuer{
		key:    key,
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
	}, nil
}

// Issue creates a signed token for the given user id and role.
func (i *TokenIssuer) Issue(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Issuer(i.issuer).
		Subject(userID.String()).
		IssuedAt(now).
		Expiration(now.Add(i.ttl)).
		Claim(roleClaim, role).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), i.key))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// Verify parses and validates a token string and returns its claims.
func (i *TokenIssuer) Verify(tokenString string) (Claims, error) {
	tok, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), i.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(i.issuer),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to verify token: %w", err)
	}
	subject, ok := tok.Subject()
	if !ok {
		return Claims{}, fmt.Errorf("token has no `sub` claim")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return Claims{}, fmt.Errorf("token subject is not a valid user id: %w", err)
	}
	var role string
	if err := tok.Get(roleClaim, &role); err != nil {
		return Claims{}, fmt.Errorf("token has no `%s` claim: %w", roleClaim, err)
	}
	return Claims{UserID: userID, Role: role}, nil
}
