// Package session maps the token pair onto the two transport cookies.
package session

import (
	"net/http"

	"github.com/moneytrail/wallet-api/internal/core/token"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	// Path scopes both cookies to the API.
	Path = "/api"
)

func newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// AccessCookie carries the access token for its full one hour lifetime.
func AccessCookie(value string) *http.Cookie {
	return newCookie(AccessCookieName, value, int(token.AccessTTL.Seconds()))
}

// RefreshCookie carries the refresh token for its full seven day lifetime.
func RefreshCookie(value string) *http.Cookie {
	return newCookie(RefreshCookieName, value, int(token.RefreshTTL.Seconds()))
}

// Pair returns the cookies issued at login.
func Pair(accessToken, refreshToken string) []*http.Cookie {
	return []*http.Cookie{AccessCookie(accessToken), RefreshCookie(refreshToken)}
}

// Clear returns empty cookies that expire both tokens immediately.
// A negative MaxAge is written as "Max-Age=0".
func Clear() []*http.Cookie {
	return []*http.Cookie{
		newCookie(AccessCookieName, "", -1),
		newCookie(RefreshCookieName, "", -1),
	}
}

// Tokens reads both cookie values from r. Missing cookies read as "".
func Tokens(r *http.Request) (accessToken, refreshToken string) {
	if c, err := r.Cookie(AccessCookieName); err == nil {
		accessToken = c.Value
	}
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		refreshToken = c.Value
	}
	return accessToken, refreshToken
}
