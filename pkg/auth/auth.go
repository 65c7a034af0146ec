// Package auth protects the HTTP transport: JWT minting/parsing for agent
// clients and bcrypt verification of static access tokens.
// Leaf package with no domain dependencies; used by cmd and internal/api/middleware.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// BCryptCost is the bcrypt work factor for access-token hashes.
const BCryptCost = 12

// DefaultTokenTTL is the JWT lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrEmptySecret  = errors.New("auth: signing secret is empty")
	ErrInvalidToken = errors.New("auth: invalid or expired token")
)

// Claims carried by a minted JWT. Subject identifies the calling agent.
type Claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// MintJWT issues an HS256 token for subject, valid for ttl
// (DefaultTokenTTL when ttl <= 0).
func MintJWT(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ParseJWT validates an HS256 token and returns its claims.
// Rejects tokens signed with any other method.
func ParseJWT(secret []byte, tokenString string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashToken hashes a static access token with bcrypt. The hash (not the
// token) goes into configuration.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash token: %w", err)
	}
	return string(hash), nil
}

// VerifyToken reports whether token matches the configured bcrypt hash.
// Returns false (not an error) on malformed hashes so callers cannot
// distinguish a bad token from a bad hash.
func VerifyToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
