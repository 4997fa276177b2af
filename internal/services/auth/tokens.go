package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/kafanski-duel/internal/dependencies/clock"
	"github.com/mcoot/kafanski-duel/internal/model"
)

// Errors
var (
	ErrMissingToken  = errors.New("missing identity token")
	ErrInvalidToken  = errors.New("invalid identity token")
	ErrExpiredToken  = errors.New("identity token has expired")
	ErrNotConfigured = errors.New("token verifier is not configured")
)

// Config holds the shared secret and expected claims of identity tokens
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// identityClaims is the token payload handed out by the identity provider
type identityClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	ClownName string `json:"clown_name,omitempty"`
	Level     int    `json:"level,omitempty"`
}

// Tokens signs and verifies HS256 identity tokens
type Tokens struct {
	cfg   Config
	clock clock.Clock
}

// NewTokens creates a token codec
func NewTokens(cfg Config, clock clock.Clock) *Tokens {
	return &Tokens{cfg: cfg, clock: clock}
}

// Verify checks the signature and claims of a token and returns the identity
// it carries. Timestamps on the returned player are left zero.
func (t *Tokens) Verify(token string) (*model.Player, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	if len(t.cfg.Secret) == 0 {
		return nil, ErrNotConfigured
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if t.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.cfg.Issuer))
	}
	if t.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(t.cfg.Audience))
	}

	var claims identityClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidToken)
	}

	return &model.Player{
		ID:        model.PlayerID(claims.Subject),
		Username:  claims.Username,
		FirstName: claims.FirstName,
		ClownName: claims.ClownName,
		Level:     claims.Level,
	}, nil
}

// Issue mints a token for the identity. Only development tooling and tests
// issue tokens; production tokens come from the identity provider.
func (t *Tokens) Issue(identity model.Player, ttl time.Duration) (string, error) {
	if len(t.cfg.Secret) == 0 {
		return "", ErrNotConfigured
	}
	now := t.clock.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(identity.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  identity.Username,
		FirstName: identity.FirstName,
		ClownName: identity.ClownName,
		Level:     identity.Level,
	}
	if t.cfg.Issuer != "" {
		claims.Issuer = t.cfg.Issuer
	}
	if t.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{t.cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.Secret)
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	return fmt.Errorf("%w: %v", ErrInvalidToken, err)
}
