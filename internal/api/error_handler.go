package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/api/middleware"
	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Cause is
// only present on authentication and authorization failures. The refresh
// notice is carried whenever the gate re-issued the access token, even if the
// request then failed.
type errorResponse struct {
	Error                 string `json:"error"`
	Cause                 string `json:"cause,omitempty"`
	RefreshedTokenMessage string `json:"refreshedTokenMessage,omitempty"`
}

// businessErrors lists the client-facing message for each domain error. All
// of them render as 400.
var businessErrors = []struct {
	err error
	msg string
}{
	{domain.ErrMissingAttributes, "Missing attributes"},
	{domain.ErrInvalidEmail, "Invalid email format"},
	{domain.ErrInvalidAmount, "Invalid amount"},
	{domain.ErrInvalidDate, "Invalid date, expected YYYY-MM-DD"},
	{domain.ErrInvalidFilter, "Cannot use date together with from or upTo"},
	{domain.ErrInvalidPayload, "Invalid payload"},
	{domain.ErrUsernameMismatch, "Username in body does not match the route"},

	{domain.ErrAlreadyRegistered, "You are already registered"},
	{domain.ErrCategoryExists, "Category already exists"},
	{domain.ErrGroupExists, "Group already exists"},
	{domain.ErrAlreadyInGroup, "You are already in a group"},
	{domain.ErrNoValidMembers, "All the members either do not exist or cannot be changed"},
	{domain.ErrLastCategory, "Cannot delete the only category"},
	{domain.ErrLastMember, "A group must keep at least one member"},
	{domain.ErrAdminNotDeletable, "Admins cannot be deleted"},

	{domain.ErrEmailNotFound, "Please you need to register"},
	{domain.ErrWrongCredentials, "Wrong credentials"},
	{domain.ErrNoRefreshToken, "No refresh token in cookies"},
	{domain.ErrUserNotFound, "The user is not in the database"},
	{domain.ErrCategoryNotFound, "Category does not exist"},
	{domain.ErrTransactionNotFound, "Transaction does not exist"},
	{domain.ErrGroupNotFound, "Group does not exist"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to 400 with a fixed message.
//   - Maps gate and policy failures to 401 with their cause.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		body.RefreshedTokenMessage = middleware.RefreshMessage(c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		return http.StatusUnauthorized, errorResponse{Error: ae.Message, Cause: ae.Cause}
	}

	for _, be := range businessErrors {
		if errors.Is(err, be.err) {
			return http.StatusBadRequest, errorResponse{Error: be.msg}
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
