package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bloggy/internal/auth"
	apperrors "bloggy/internal/errors"
	"bloggy/internal/model"
	"bloggy/internal/repository"
)

// ErrInvalidCredentials is returned when email or password is incorrect.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// AuthService handles registration, login and account confirmation.
// Confirmation tokens are handed back to the caller; delivering them (the
// confirmation email) belongs to an external collaborator.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (user *model.User, confirmToken string, err error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	// Confirm marks the user confirmed when token is valid for exactly that
	// user and still inside its window. Every failure mode collapses to
	// false with confirmed left untouched.
	Confirm(ctx context.Context, userID uint, token string) (bool, error)
	ResendConfirmation(ctx context.Context, userID uint) (string, error)
}

type authService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	jwtService   *auth.JWTService
	confirmToken *auth.ConfirmTokenService
	tokenStore   auth.TokenStoreInterface
	adminEmail   string
}

// NewAuthService creates a new authentication service. adminEmail is the
// configured administrator address; a matching registration gets the
// Administrator role.
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	jwtService *auth.JWTService,
	confirmToken *auth.ConfirmTokenService,
	tokenStore auth.TokenStoreInterface,
	adminEmail string,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		jwtService:   jwtService,
		confirmToken: confirmToken,
		tokenStore:   tokenStore,
		adminEmail:   adminEmail,
	}
}

// Register creates a new unconfirmed user with a hashed password and an
// assigned role, and returns a confirmation token for it.
func (s *authService) Register(ctx context.Context, email, username, password string) (*model.User, string, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, "", apperrors.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}

	role, err := s.assignRole(ctx, email)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:    email,
		Username: username,
		RoleID:   role.ID,
		Role:     role,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race against a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrDuplicateUser
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.confirmToken.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate confirmation token: %w", err)
	}
	return user, token, nil
}

// assignRole picks the role for a fresh registration: the Administrator
// role for the configured admin address, the default role otherwise. A user
// never ends up without a role.
func (s *authService) assignRole(ctx context.Context, email string) (*model.Role, error) {
	if s.adminEmail != "" && email == s.adminEmail {
		role, err := s.roleRepo.FindByName(ctx, model.RoleAdministrator)
		if err != nil {
			return nil, fmt.Errorf("find administrator role: %w", err)
		}
		return role, nil
	}
	role, err := s.roleRepo.FindDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("find default role: %w", err)
	}
	return role, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	if !user.VerifyPassword(password) {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Username, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedUsername, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedUsername != claims.Username {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

func (s *authService) Confirm(ctx context.Context, userID uint, token string) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	if user.Confirmed {
		return true, nil
	}
	if !s.confirmToken.Verify(token, user.ID) {
		return false, nil
	}
	user.Confirmed = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("persist confirmation: %w", err)
	}
	return true, nil
}

// ResendConfirmation issues a fresh confirmation token for the user.
func (s *authService) ResendConfirmation(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	token, err := s.confirmToken.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate confirmation token: %w", err)
	}
	return token, nil
}
