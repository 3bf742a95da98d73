package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/moneytrail/wallet-api/internal/api/middleware"
	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/policy"
)

// envelope is the success body shared by every endpoint.
type envelope struct {
	Data                  any    `json:"data"`
	RefreshedTokenMessage string `json:"refreshedTokenMessage,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type countResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// respond writes data in the success envelope, carrying the gate's refresh
// notice when the access token was re-issued for this request.
func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Data: data, RefreshedTokenMessage: middleware.RefreshMessage(c)})
}

// caller returns the identity injected by the Auth middleware. Its absence
// means the route was mounted without the gate.
func caller(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.Identity(c)
	if !ok || !id.Complete() {
		return domain.Identity{}, domain.Unauthorized(policy.CauseNotLoggedIn)
	}
	return id, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.ErrInvalidPayload
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// orEmpty keeps JSON arrays from rendering as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// errorBody documents the failure envelope rendered by the central error handler.
type errorBody struct {
	Error                 string `json:"error"`
	Cause                 string `json:"cause,omitempty"`
	RefreshedTokenMessage string `json:"refreshedTokenMessage,omitempty"`
}
