package handler

import (
	"github.com/labstack/echo/v4"

	"bloggy/internal/model"
)

// actorKey is the echo context key the router's auth middleware writes the
// resolved user under.
const actorKey = "bloggy.actor"

// SetCurrentUser stashes the resolved user on the request context.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(actorKey, user)
}

// CurrentUser returns the authenticated user for this request, or nil when
// the request is anonymous.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(actorKey).(*model.User)
	return user
}

// CurrentActor returns the permission-checking view of the requester. An
// unauthenticated request yields the anonymous actor, which denies every
// permission, so callers can query Can without a nil check.
func CurrentActor(c echo.Context) model.Actor {
	if user := CurrentUser(c); user != nil {
		return user
	}
	return model.AnonymousUser{}
}
