package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/policy"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

const groupKey = "group"

type GroupHandler struct {
	service ports.GroupService
}

func NewGroupHandler(service ports.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

type createGroupRequest struct {
	Name         string   `json:"name"         validate:"required"`
	MemberEmails []string `json:"memberEmails" validate:"required"`
}

type membersRequest struct {
	Emails []string `json:"emails" validate:"required"`
}

type deleteGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

type groupAddResponse struct {
	Group           *domain.Group `json:"group"`
	AlreadyInGroup  []string      `json:"alreadyInGroup"`
	MembersNotFound []string      `json:"membersNotFound"`
}

type groupRemoveResponse struct {
	Group           *domain.Group `json:"group"`
	NotInGroup      []string      `json:"notInGroup"`
	MembersNotFound []string      `json:"membersNotFound"`
}

// ResolveGroup loads the :name group as the policy target and keeps it on
// the context for the handler. A missing group resolves to a nil target so
// that callers without access cannot tell it apart from a forbidden one.
func (h *GroupHandler) ResolveGroup(c echo.Context) (policy.Target, error) {
	g, err := h.service.Find(c.Request().Context(), c.Param("name"))
	switch {
	case errors.Is(err, domain.ErrGroupNotFound):
		return policy.Target{}, nil
	case err != nil:
		return policy.Target{}, err
	}
	c.Set(groupKey, g)
	return policy.Target{Group: g}, nil
}

// routeGroup returns the group resolved for this request, loading it when
// the route was authorized without a resolver.
func routeGroup(c echo.Context, service ports.GroupService) (*domain.Group, error) {
	if g, ok := c.Get(groupKey).(*domain.Group); ok && g != nil {
		return g, nil
	}
	return service.Find(c.Request().Context(), c.Param("name"))
}

// Create handles POST /api/groups.
//
// @Summary      Create a group with the caller as first member
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        body  body      createGroupRequest  true  "Group name and member emails"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /groups [post]
func (h *GroupHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	change, err := h.service.Create(c.Request().Context(), id, req.Name, req.MemberEmails)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, groupAddResponse{
		Group:           change.Group,
		AlreadyInGroup:  orEmpty(change.AlreadyInGroup),
		MembersNotFound: orEmpty(change.MembersNotFound),
	})
}

// List handles GET /api/groups.
//
// @Summary      List groups
// @Tags         groups
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorBody
// @Router       /groups [get]
func (h *GroupHandler) List(c echo.Context) error {
	groups, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, groups)
}

// Get handles GET /api/groups/:name.
//
// @Summary      Get a group
// @Tags         groups
// @Produce      json
// @Param        name  path      string  true  "Group name"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /groups/{name} [get]
func (h *GroupHandler) Get(c echo.Context) error {
	g, err := routeGroup(c, h.service)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, g)
}

// Add handles PATCH /api/groups/:name/add and /insert.
//
// @Summary      Add members to a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        name  path      string          true  "Group name"
// @Param        body  body      membersRequest  true  "Emails to add"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /groups/{name}/add [patch]
func (h *GroupHandler) Add(c echo.Context) error {
	var req membersRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	g, err := routeGroup(c, h.service)
	if err != nil {
		return err
	}

	change, err := h.service.Add(c.Request().Context(), g, req.Emails)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, groupAddResponse{
		Group:           change.Group,
		AlreadyInGroup:  orEmpty(change.AlreadyInGroup),
		MembersNotFound: orEmpty(change.MembersNotFound),
	})
}

// Remove handles PATCH /api/groups/:name/remove and /pull.
//
// @Summary      Remove members from a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        name  path      string          true  "Group name"
// @Param        body  body      membersRequest  true  "Emails to remove"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /groups/{name}/remove [patch]
func (h *GroupHandler) Remove(c echo.Context) error {
	var req membersRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	g, err := routeGroup(c, h.service)
	if err != nil {
		return err
	}

	change, err := h.service.Remove(c.Request().Context(), g, req.Emails)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, groupRemoveResponse{
		Group:           change.Group,
		NotInGroup:      orEmpty(change.NotInGroup),
		MembersNotFound: orEmpty(change.MembersNotFound),
	})
}

// Delete handles DELETE /api/groups.
//
// @Summary      Delete a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        body  body      deleteGroupRequest  true  "Group name"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /groups [delete]
func (h *GroupHandler) Delete(c echo.Context) error {
	var req deleteGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), req.Name); err != nil {
		return err
	}
	return respond(c, http.StatusOK, messageResponse{Message: "Group deleted successfully"})
}
