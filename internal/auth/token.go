package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long a login token stays valid.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Kind discriminates the three account types that can hold a token.
type Kind string

const (
	KindStudent Kind = "student"
	KindTeacher Kind = "teacher"
	KindAdmin   Kind = "admin"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStudent, KindTeacher, KindAdmin:
		return true
	}
	return false
}

// Identity is the authenticated caller. ID is the primary key in the table
// selected by Kind; Identifier is the login key (roll number, teacher id or username).
type Identity struct {
	Kind       Kind   `json:"kind"`
	ID         uint   `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

// Claims is the JWT payload. The subject carries the numeric account id.
type Claims struct {
	Kind       Kind   `json:"kind"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

// Identity rebuilds the caller from verified claims.
func (c *Claims) Identity() (Identity, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 || !c.Kind.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Kind: c.Kind, ID: uint(id), Identifier: c.Identifier, Name: c.Name}, nil
}

// TokenService issues and verifies HS256 identity tokens with a single static secret.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the identity.
func (s *TokenService) Issue(identity Identity) (string, time.Time, error) {
	if !identity.Kind.Valid() || identity.ID == 0 {
		return "", time.Time{}, fmt.Errorf("issue token: incomplete identity %+v", identity)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		Kind:       identity.Kind,
		Identifier: identity.Identifier,
		Name:       identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(identity.ID), 10),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry, and returns the caller identity.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return Identity{}, ErrInvalidToken
	}
	return claims.Identity()
}
