package service

import (
	"errors"
	"fmt"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
	"github.com/moneytrail/wallet-api/internal/core/token"
)

// RefreshedTokenMessage is surfaced on the response body whenever the gate
// silently re-issued the access token.
const RefreshedTokenMessage = "Access token has been refreshed. Remember to copy the new one in the headers of subsequent calls"

// Causes reported by the gate.
const (
	CauseNoRefreshToken      = "no refresh token"
	CauseNoAccessToken       = "no access token"
	CauseInvalidAccessToken  = "invalid access token"
	CauseInvalidRefreshToken = "invalid refresh token"
	CauseLoginAgain          = "perform login again"
	CauseIncompleteClaims    = "incomplete identity claims"
)

// AuthGate resolves the caller from the access/refresh cookie pair. It is a
// pure decision over the two strings and the codec clock; it never touches
// the credential store, so a structurally valid unexpired token is honored
// even after a later login replaced the stored refresh token.
type AuthGate struct {
	codec *token.Codec
}

func NewAuthGate(codec *token.Codec) *AuthGate {
	return &AuthGate{codec: codec}
}

// Authenticate returns the resolved identity or a *domain.AuthError. When the
// access token had expired but the refresh token is still valid, the result
// carries a replacement access token that the caller must send back.
func (g *AuthGate) Authenticate(accessToken, refreshToken string) (*ports.GateResult, error) {
	if refreshToken == "" {
		return nil, domain.Unauthenticated(CauseNoRefreshToken)
	}
	if accessToken == "" {
		return nil, domain.Unauthenticated(CauseNoAccessToken)
	}

	access, err := g.codec.Verify(accessToken)
	switch {
	case err == nil:
		// An expired refresh token does not invalidate a live access token;
		// a malformed one does.
		if _, rerr := g.codec.Verify(refreshToken); rerr != nil && !errors.Is(rerr, token.ErrExpired) {
			return nil, domain.Unauthenticated(CauseInvalidRefreshToken)
		}
		return g.accept(&ports.GateResult{Identity: access.Identity()})

	case errors.Is(err, token.ErrIncompleteClaims):
		return nil, domain.Unauthenticated(CauseIncompleteClaims)

	case !errors.Is(err, token.ErrExpired):
		return nil, domain.Unauthenticated(CauseInvalidAccessToken)
	}

	refresh, err := g.codec.Verify(refreshToken)
	if err != nil {
		return nil, domain.Unauthenticated(CauseLoginAgain)
	}

	id := refresh.Identity()
	fresh, err := g.codec.Issue(id, token.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("reissue access token: %w", err)
	}

	return g.accept(&ports.GateResult{
		Identity: id,
		Refresh:  &ports.TokenRefresh{AccessToken: fresh, Message: RefreshedTokenMessage},
	})
}

func (g *AuthGate) accept(res *ports.GateResult) (*ports.GateResult, error) {
	if !res.Identity.Complete() {
		return nil, domain.Unauthenticated(CauseIncompleteClaims)
	}
	return res, nil
}
