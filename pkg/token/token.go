package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures. Callers only ever distinguish "expired" from
// "anything else wrong"; the details stay server-side.
var (
	ErrInvalid = errors.New("token is invalid")
	ErrExpired = errors.New("token has expired")
)

// Claims carried by every session token. The role travels in the token so
// the guard never needs a store lookup.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Provider issues and verifies HS256 session tokens. The signing secret is
// process-wide configuration, loaded once at startup and never logged.
type Provider struct {
	secret []byte
	ttl    time.Duration
}

func NewProvider(secret string, ttl time.Duration) *Provider {
	return &Provider{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token asserting identityID and role, valid for the
// configured TTL. There is no refresh mechanism; expiry forces
// re-authentication.
func (p *Provider) Issue(identityID, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(p.ttl)

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token string. Expired tokens surface as
// ErrExpired; every other failure (bad signature, wrong algorithm, garbage
// input, missing subject) collapses into ErrInvalid.
func (p *Provider) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
