package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/moneytrail/wallet-api/internal/api/metrics"
	"github.com/moneytrail/wallet-api/internal/api/session"
	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

const (
	identityKey       = "identity"
	refreshMessageKey = "refreshedTokenMessage"
)

// Auth resolves the caller from the session cookies and injects the identity
// into the context. A re-issued access token is written to the response
// before the handler runs, so it reaches the client whatever the handler does.
func Auth(gate ports.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			access, refresh := session.Tokens(c.Request())

			res, err := gate.Authenticate(access, refresh)
			if err != nil {
				metrics.GateDecisionsTotal.WithLabelValues("rejected").Inc()
				return err
			}

			if res.Refresh != nil {
				c.SetCookie(session.AccessCookie(res.Refresh.AccessToken))
				c.Set(refreshMessageKey, res.Refresh.Message)
				metrics.GateDecisionsTotal.WithLabelValues("refreshed").Inc()
			} else {
				metrics.GateDecisionsTotal.WithLabelValues("accepted").Inc()
			}

			c.Set(identityKey, res.Identity)
			return next(c)
		}
	}
}

// Identity returns the caller injected by Auth.
func Identity(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// RefreshMessage returns the notice to attach to the response body, or "".
func RefreshMessage(c echo.Context) string {
	msg, _ := c.Get(refreshMessageKey).(string)
	return msg
}
