package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bloggy/internal/cache"
	apperrors "bloggy/internal/errors"
	"bloggy/internal/model"
	"bloggy/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileUpdate carries the fields a user may edit on their own profile.
type ProfileUpdate struct {
	Name     string
	Location string
	AboutMe  string
}

// AdminProfileUpdate carries the fields an administrator may edit on any
// profile. Email/username changes obey the same uniqueness rules as
// registration.
type AdminProfileUpdate struct {
	Email     string
	Username  string
	Confirmed bool
	RoleID    uint
	Name      string
	Location  string
	AboutMe   string
}

// UserService exposes profile operations.
type UserService interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error)
	UpdateProfileAdmin(ctx context.Context, userID uint, update AdminProfileUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, userID uint) error
	// Ping refreshes last_seen; the router calls it on every authenticated
	// request.
	Ping(ctx context.Context, userID uint) error
}

type userService struct {
	repo     repository.UserRepository
	roleRepo repository.RoleRepository
	cache    *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, roleRepo repository.RoleRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, roleRepo: roleRepo, cache: cache}
}

func (s *userService) cacheKey(username string) string {
	return fmt.Sprintf("user:%s", username)
}

func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(username)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(username), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = update.Name
	user.Location = update.Location
	user.AboutMe = update.AboutMe
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.Username))
	return user, nil
}

func (s *userService) UpdateProfileAdmin(ctx context.Context, userID uint, update AdminProfileUpdate) (*model.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != user.Email {
		if other, err := s.repo.FindByEmail(ctx, update.Email); err == nil && other.ID != user.ID {
			return nil, apperrors.ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}
	oldUsername := user.Username
	if update.Username != user.Username {
		if other, err := s.repo.FindByUsername(ctx, update.Username); err == nil && other.ID != user.ID {
			return nil, apperrors.ErrUsernameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check username: %w", err)
		}
	}

	role, err := s.roleRepo.FindByID(ctx, update.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}

	user.Email = update.Email
	user.Username = update.Username
	user.Confirmed = update.Confirmed
	user.RoleID = role.ID
	user.Role = role
	user.Name = update.Name
	user.Location = update.Location
	user.AboutMe = update.AboutMe

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(oldUsername))
	_ = s.cache.Delete(ctx, s.cacheKey(user.Username))
	return user, nil
}

// DeleteUser removes the user; the repository deletes the user's follow
// edges in the same transaction.
func (s *userService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.Username))
	return nil
}

func (s *userService) Ping(ctx context.Context, userID uint) error {
	return s.repo.UpdateLastSeen(ctx, userID, time.Now())
}
