package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/moneytrail/wallet-api/internal/api/metrics"
	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/policy"
)

// TargetResolver extracts the policy target from the request.
type TargetResolver func(c echo.Context) (policy.Target, error)

// RouteUser targets the :username path parameter.
func RouteUser(c echo.Context) (policy.Target, error) {
	return policy.Target{Username: c.Param("username")}, nil
}

// NoTarget is used by operations whose rule looks only at the identity.
func NoTarget(echo.Context) (policy.Target, error) {
	return policy.Target{}, nil
}

// Authorize enforces the rule declared for op. It must run after Auth.
func Authorize(op policy.Operation, resolve TargetResolver) echo.MiddlewareFunc {
	if resolve == nil {
		resolve = NoTarget
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok {
				metrics.PolicyDenialsTotal.WithLabelValues(string(op)).Inc()
				return domain.Unauthorized(policy.CauseNotLoggedIn)
			}

			target, err := resolve(c)
			if err != nil {
				return err
			}

			if err := policy.Authorize(op, id, target); err != nil {
				metrics.PolicyDenialsTotal.WithLabelValues(string(op)).Inc()
				return err
			}
			return next(c)
		}
	}
}
