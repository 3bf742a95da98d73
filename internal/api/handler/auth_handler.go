package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneytrail/wallet-api/internal/api/metrics"
	"github.com/moneytrail/wallet-api/internal/api/session"
	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates a regular account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput(req))
	countAttempt("register", err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "User added successfully"})
}

// RegisterAdmin creates an admin account.
//
// @Summary      Register a new admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Admin registration details"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Router       /admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	_, err := h.authService.RegisterAdmin(c.Request().Context(), ports.RegisterInput(req))
	countAttempt("register_admin", err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "Admin added successfully"})
}

// Login issues a fresh token pair as cookies. Cookies are only set on success.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	s, err := h.authService.Login(c.Request().Context(), ports.LoginInput(req))
	countAttempt("login", err)
	if err != nil {
		return err
	}

	for _, cookie := range session.Pair(s.AccessToken, s.RefreshToken) {
		c.SetCookie(cookie)
	}
	return respond(c, http.StatusOK, loginResponse{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken})
}

// Logout revokes the stored refresh token and expires both cookies.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      400  {object}  errorBody
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	_, refresh := session.Tokens(c.Request())

	err := h.authService.Logout(c.Request().Context(), refresh)
	countAttempt("logout", err)
	if err != nil {
		return err
	}

	for _, cookie := range session.Clear() {
		c.SetCookie(cookie)
	}
	return respond(c, http.StatusOK, messageResponse{Message: "User logged out"})
}

func countAttempt(op string, err error) {
	metrics.AuthAttemptsTotal.WithLabelValues(op, attemptResult(err)).Inc()
}

func attemptResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrWrongCredentials):
		return "wrong_credentials"
	case errors.Is(err, domain.ErrEmailNotFound), errors.Is(err, domain.ErrUserNotFound):
		return "unknown_user"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "already_registered"
	default:
		return "error"
	}
}
