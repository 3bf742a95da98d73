package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneytrail/wallet-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type deleteUserRequest struct {
	Email string `json:"email" validate:"required"`
}

type deleteUserResponse struct {
	DeletedTransactions int64 `json:"deletedTransactions"`
	DeletedFromGroup    bool  `json:"deletedFromGroup"`
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorBody
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}

// Get handles GET /api/users/:username.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  envelope
// @Failure      400       {object}  errorBody
// @Failure      401       {object}  errorBody
// @Router       /users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// Delete handles DELETE /api/users.
//
// @Summary      Delete a user with their transactions and memberships
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      deleteUserRequest  true  "User email"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /users [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	var req deleteUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Delete(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, deleteUserResponse{
		DeletedTransactions: res.DeletedTransactions,
		DeletedFromGroup:    res.DeletedFromGroup,
	})
}
