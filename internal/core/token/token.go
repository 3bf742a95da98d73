// Package token issues and verifies the signed session tokens carried in the
// accessToken and refreshToken cookies.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

const (
	AccessTTL  = time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
	// ErrIncompleteClaims is an ErrInvalid whose signature and expiry passed
	// but whose identity claims are partial.
	ErrIncompleteClaims = fmt.Errorf("%w: incomplete identity claims", ErrInvalid)
)

// Claims is the decoded token payload: the four identity fields plus iat/exp.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	ID       string `json:"id"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the request-scoped identity.
func (c *Claims) Identity() domain.Identity {
	id := domain.Identity{
		ID:       c.ID,
		Email:    c.Email,
		Username: c.Username,
		Role:     domain.Role(c.Role),
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// Codec signs tokens with a shared HS256 secret. It holds no state besides
// the secret and the clock, so one instance serves every request.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// WithClock returns a copy of the codec reading time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue signs the identity with an expiry ttl from now. iat only carries
// whole seconds, so the jti is derived from the identity and the full
// issuance instant: tokens issued at different instants always differ.
func (c *Codec) Issue(id domain.Identity, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		Email:    id.Email,
		Username: id.Username,
		Role:     string(id.Role),
		ID:       id.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID(id, now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func tokenID(id domain.Identity, at time.Time) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id.ID+"|"+at.UTC().Format(time.RFC3339Nano))).String()
}

// Verify checks signature, expiry and claim completeness. It returns
// ErrExpired when the current time is at or past exp, and an error wrapping
// ErrInvalid for every other failure.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalid
	}
	if !claims.Identity().Complete() {
		return nil, ErrIncompleteClaims
	}
	return claims, nil
}
