package router

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bloggy/internal/auth"
	"bloggy/internal/config"
	"bloggy/internal/handler"
	"bloggy/internal/model"
	"bloggy/internal/service"
)

// usernamePattern: a letter followed by letters, digits, dots or
// underscores.
var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._]*$`)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userService service.UserService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	followHandler *handler.FollowHandler,
	postHandler *handler.PostHandler,
	roleHandler *handler.RoleHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/users/:username", userHandler.GetUser)
	api.GET("/users/:username/followers", followHandler.Followers)
	api.GET("/users/:username/following", followHandler.Following)
	api.GET("/posts/:id", postHandler.GetPost)

	// Authenticated routes: validate the JWT, resolve the user and refresh
	// last_seen on every request.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
				return jwtService.ValidateToken(tokenString)
			},
		}),
		resolveActor(userService),
	)

	// Confirmation endpoints stay reachable for unconfirmed accounts.
	secured.POST("/auth/confirm/resend", authHandler.ResendConfirmation)
	secured.POST("/auth/confirm/:token", authHandler.Confirm)
	secured.GET("/me", userHandler.GetMe)

	// Everything else on the site requires a confirmed account.
	confirmed := secured.Group("", requireConfirmed())

	confirmed.PUT("/me", userHandler.UpdateMe)

	confirmed.GET("/users/:username/follow", followHandler.FollowStatus)
	confirmed.POST("/users/:username/follow", followHandler.Follow, RequirePermission(model.PermFollow))
	confirmed.DELETE("/users/:username/follow", followHandler.Unfollow, RequirePermission(model.PermFollow))

	confirmed.POST("/posts", postHandler.CreatePost, RequirePermission(model.PermWrite))
	confirmed.PUT("/posts/:id", postHandler.EditPost)

	admin := confirmed.Group("", RequirePermission(model.PermAdmin))
	admin.PUT("/users/:id", userHandler.AdminUpdateUser)
	admin.DELETE("/users/:id", userHandler.DeleteUser)
	admin.GET("/roles", roleHandler.ListRoles)
	admin.PATCH("/roles/:id/permissions", roleHandler.EditPermissions)
}

// resolveActor turns validated JWT claims into the current *model.User,
// stashes it for handlers and pings the user to keep last_seen fresh. This
// is the "before request" hook of the site.
func resolveActor(userService service.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			user, err := userService.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
			}
			handler.SetCurrentUser(c, user)
			if err := userService.Ping(c.Request().Context(), user.ID); err != nil {
				c.Logger().Warnf("ping user %d: %v", user.ID, err)
			}
			return next(c)
		}
	}
}

// requireConfirmed blocks accounts that never followed their confirmation
// link, mirroring the unconfirmed redirect of the web flow.
func requireConfirmed() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := handler.CurrentUser(c)
			if user == nil || !user.Confirmed {
				return echo.NewHTTPError(http.StatusForbidden, "account not confirmed")
			}
			return next(c)
		}
	}
}

// RequirePermission is the explicit guard in front of protected handlers:
// the actor either holds the permission or the request dies with 403. The
// anonymous actor fails every check.
func RequirePermission(perm model.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !handler.CurrentActor(c).Can(perm) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo and registers the username rule.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
