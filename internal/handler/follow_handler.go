package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bloggy/internal/errors"
	"bloggy/internal/model"
	"bloggy/internal/service"
)

// FollowHandler handles follow graph endpoints.
type FollowHandler struct {
	userService   service.UserService
	followService service.FollowService
}

// NewFollowHandler creates a new follow handler.
func NewFollowHandler(userService service.UserService, followService service.FollowService) *FollowHandler {
	return &FollowHandler{userService: userService, followService: followService}
}

func (h *FollowHandler) target(c echo.Context) (*model.User, error) {
	user, err := h.userService.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return user, nil
}

// Follow godoc
// @Summary Follow a user
// @Tags follows
// @Produce json
// @Param username path string true "Username to follow"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/follow [post]
func (h *FollowHandler) Follow(c echo.Context) error {
	follower := CurrentUser(c)
	if follower == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	followed, err := h.target(c)
	if err != nil {
		return err
	}

	if err := h.followService.Follow(c.Request().Context(), follower, followed); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "following " + followed.Username})
}

// Unfollow godoc
// @Summary Unfollow a user
// @Tags follows
// @Produce json
// @Param username path string true "Username to unfollow"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/follow [delete]
func (h *FollowHandler) Unfollow(c echo.Context) error {
	follower := CurrentUser(c)
	if follower == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	followed, err := h.target(c)
	if err != nil {
		return err
	}

	if err := h.followService.Unfollow(c.Request().Context(), follower, followed); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "unfollowed " + followed.Username})
}

// FollowStatus godoc
// @Summary Relationship between the current user and another user
// @Tags follows
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/follow [get]
func (h *FollowHandler) FollowStatus(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	other, err := h.target(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	following, err := h.followService.IsFollowing(ctx, user, other)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	followedBy, err := h.followService.IsFollowedBy(ctx, user, other)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"following":   following,
		"followed_by": followedBy,
	})
}

// Followers godoc
// @Summary List a user's followers
// @Tags follows
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username}/followers [get]
func (h *FollowHandler) Followers(c echo.Context) error {
	user, err := h.target(c)
	if err != nil {
		return err
	}
	followers, err := h.followService.Followers(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"followers": followers})
}

// Following godoc
// @Summary List the users a user follows
// @Tags follows
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username}/following [get]
func (h *FollowHandler) Following(c echo.Context) error {
	user, err := h.target(c)
	if err != nil {
		return err
	}
	following, err := h.followService.Following(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"following": following})
}
