package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bloggy/internal/auth"
	"bloggy/internal/cache"
	"bloggy/internal/config"
	"bloggy/internal/db"
	"bloggy/internal/handler"
	"bloggy/internal/model"
	"bloggy/internal/repository"
	"bloggy/internal/router"
	"bloggy/internal/service"
)

// @title Bloggy API
// @version 1.0
// @description Multi-user publishing site with role-based permissions, account confirmation and a follow graph.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Follow{},
		&model.Post{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	roleRepo := repository.NewRoleRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	followRepo := repository.NewFollowRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.SecretKey)
	confirmTokens := auth.NewConfirmTokenService(cfg.SecretKey)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	roleService := service.NewRoleService(roleRepo)
	authService := service.NewAuthService(userRepo, roleRepo, jwtService, confirmTokens, tokenStore, cfg.AdminEmail)
	userService := service.NewUserService(userRepo, roleRepo, cacheClient)
	followService := service.NewFollowService(followRepo)
	postService := service.NewPostService(postRepo)

	// The role table must exist before any registration; a failed seed is
	// fatal, not recovered.
	if err := roleService.SeedRoles(context.Background()); err != nil {
		log.Fatalf("seed roles: %v", err)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, followService, postService)
	followHandler := handler.NewFollowHandler(userService, followService)
	postHandler := handler.NewPostHandler(postService)
	roleHandler := handler.NewRoleHandler(roleService)

	router.Register(
		e,
		cfg,
		jwtService,
		userService,
		authHandler,
		userHandler,
		followHandler,
		postHandler,
		roleHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
