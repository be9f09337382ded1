package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"bloggy/internal/errors"
	"bloggy/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService   service.UserService
	followService service.FollowService
	postService   service.PostService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, followService service.FollowService, postService service.PostService) *UserHandler {
	return &UserHandler{userService: userService, followService: followService, postService: postService}
}

// UpdateProfileRequest represents a self profile edit.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"max=64"`
	Location string `json:"location" validate:"max=64"`
	AboutMe  string `json:"about_me"`
}

// AdminUpdateProfileRequest represents an administrator editing any profile.
type AdminUpdateProfileRequest struct {
	Email     string `json:"email" validate:"required,email,max=64"`
	Username  string `json:"username" validate:"required,username,max=64"`
	Confirmed bool   `json:"confirmed"`
	RoleID    uint   `json:"role_id" validate:"required"`
	Name      string `json:"name" validate:"max=64"`
	Location  string `json:"location" validate:"max=64"`
	AboutMe   string `json:"about_me"`
}

// GetUser godoc
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userService.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	followers, following, err := h.followService.Counts(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	posts, err := h.postService.ListByAuthor(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":            user,
		"followers_count": followers,
		"following_count": following,
		"posts":           posts,
	})
}

// GetMe godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateMe godoc
// @Summary Edit the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), user.ID, service.ProfileUpdate{
		Name:     req.Name,
		Location: req.Location,
		AboutMe:  req.AboutMe,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": updated})
}

// AdminUpdateUser godoc
// @Summary Edit any user's profile, confirmation state and role
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body AdminUpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) AdminUpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req AdminUpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.UpdateProfileAdmin(c.Request().Context(), uint(id), service.AdminProfileUpdate{
		Email:     req.Email,
		Username:  req.Username,
		Confirmed: req.Confirmed,
		RoleID:    req.RoleID,
		Name:      req.Name,
		Location:  req.Location,
		AboutMe:   req.AboutMe,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": updated})
}

// DeleteUser godoc
// @Summary Delete a user and every follow edge touching them
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if err := h.userService.DeleteUser(c.Request().Context(), uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}
