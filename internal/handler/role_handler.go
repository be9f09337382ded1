package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"bloggy/internal/errors"
	"bloggy/internal/model"
	"bloggy/internal/service"
)

// RoleHandler handles administrative role endpoints.
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// PermissionEditRequest edits a role's permission bits.
type PermissionEditRequest struct {
	Op         string `json:"op" validate:"required,oneof=add remove reset"`
	Permission int    `json:"permission"`
}

// ListRoles godoc
// @Summary List all roles
// @Tags roles
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c echo.Context) error {
	roles, err := h.roleService.ListRoles(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"roles": roles})
}

// EditPermissions godoc
// @Summary Add, remove or reset a role's permission bits
// @Tags roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param request body PermissionEditRequest true "Edit operation"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{id}/permissions [patch]
func (h *RoleHandler) EditPermissions(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role id")
	}

	var req PermissionEditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	perm := model.Permission(req.Permission)
	var role *model.Role
	switch req.Op {
	case "add":
		role, err = h.roleService.AddPermission(ctx, uint(id), perm)
	case "remove":
		role, err = h.roleService.RemovePermission(ctx, uint(id), perm)
	case "reset":
		role, err = h.roleService.ResetPermissions(ctx, uint(id))
	}
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"role": role})
}
