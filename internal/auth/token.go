package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenTTL is the fixed validity window of an issued token.
	TokenTTL = time.Hour

	tokenIssuer = "cmsc447project"
)

// ErrInvalidToken covers malformed, expired and badly signed tokens
// uniformly. Callers treat all three the same; the wrapped cause remains
// available for logging.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by an auth token.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies HS256-signed bearer tokens. The signing
// secret is fixed for the lifetime of the issuer: a token is only
// verifiable against the same secret it was signed with, so the secret
// must never be regenerated per call.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer holding one process-wide secret.
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// NewRandomSecret generates key material for a TokenIssuer when no secret
// is configured. Tokens signed with it do not survive a process restart.
func NewRandomSecret() ([]byte, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	out := make([]byte, base64.RawURLEncoding.EncodedLen(len(b)))
	base64.RawURLEncoding.Encode(out, b)
	return out, nil
}

// Issue creates a signed token bound to userID, valid for TokenTTL.
func (ti *TokenIssuer) Issue(userID uint64) (string, error) {
	now := ti.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the user ID it is bound
// to. Any failure is reported as ErrInvalidToken.
func (ti *TokenIssuer) Verify(tokenString string) (uint64, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return ti.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(func() time.Time { return ti.now() }))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject: %w", ErrInvalidToken, err)
	}
	return userID, nil
}
