package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/x", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		code  int
		msg   string
		cause string
	}{
		{"missing attributes", domain.ErrMissingAttributes, 400, "Missing attributes", ""},
		{"wrapped duplicate", fmt.Errorf("register: %w", domain.ErrAlreadyRegistered), 400, "You are already registered", ""},
		{"email not found", domain.ErrEmailNotFound, 400, "Please you need to register", ""},
		{"wrong credentials", domain.ErrWrongCredentials, 400, "Wrong credentials", ""},
		{"no refresh cookie", domain.ErrNoRefreshToken, 400, "No refresh token in cookies", ""},
		{"unknown user", domain.ErrUserNotFound, 400, "The user is not in the database", ""},
		{"gate failure", domain.Unauthenticated("perform login again"), 401, "Unauthorized", "perform login again"},
		{"policy failure", domain.Unauthorized("admin role required"), 401, "Unauthorized access", "admin role required"},
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "Not Found"), 404, "Not Found", ""},
		{"unexpected", errors.New("mongo exploded"), 500, "internal server error", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := renderError(t, tc.err)
			if code != tc.code || body.Error != tc.msg || body.Cause != tc.cause {
				t.Fatalf("got %d %+v, want %d %q/%q", code, body, tc.code, tc.msg, tc.cause)
			}
		})
	}
}

func TestHTTPErrorHandler_EveryBusinessErrorIs400(t *testing.T) {
	for _, be := range businessErrors {
		code, body := renderError(t, be.err)
		if code != http.StatusBadRequest || body.Error != be.msg {
			t.Fatalf("%v: got %d %q", be.err, code, body.Error)
		}
	}
}

func TestHTTPErrorHandler_NoRefreshNoticeByDefault(t *testing.T) {
	_, body := renderError(t, domain.Unauthorized("admin role required"))
	if body.RefreshedTokenMessage != "" {
		t.Fatalf("unexpected refresh notice %q", body.RefreshedTokenMessage)
	}
}
