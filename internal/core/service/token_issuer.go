package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spabook/portal/internal/core/domain"
)

// PlaceholderToken is the constant `auth_token` value of demo builds.
const PlaceholderToken = "mock-jwt-token"

var errTokenInvalid = errors.New("token invalid")

// PlaceholderTokens issues the demo token and accepts nothing else.
type PlaceholderTokens struct{}

func (PlaceholderTokens) Issue(*domain.Identity) (string, error) { return PlaceholderToken, nil }

func (PlaceholderTokens) Verify(token string) error {
	if token != PlaceholderToken {
		return errTokenInvalid
	}
	return nil
}

// JWTTokens signs HS256 tokens carrying the identity's subject, email and role.
type JWTTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTTokens(secret string, ttl time.Duration) *JWTTokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *JWTTokens) Issue(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"role":  string(identity.Role),
		"exp":   t.now().Add(t.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

func (t *JWTTokens) Verify(token string) error {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return err
	}
	if !tkn.Valid {
		return errTokenInvalid
	}
	return nil
}
