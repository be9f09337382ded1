package service

import (
	"context"
	"fmt"

	apperrors "bloggy/internal/errors"
	"bloggy/internal/model"
	"bloggy/internal/repository"
)

// FollowService manages the directed follow graph between users.
type FollowService interface {
	// Follow creates the edge follower→followed. Re-following is a no-op;
	// following yourself is rejected.
	Follow(ctx context.Context, follower, followed *model.User) error
	// Unfollow removes the edge follower→followed if it exists.
	Unfollow(ctx context.Context, follower, followed *model.User) error
	IsFollowing(ctx context.Context, follower, followed *model.User) (bool, error)
	IsFollowedBy(ctx context.Context, user, other *model.User) (bool, error)
	Followers(ctx context.Context, user *model.User) ([]model.User, error)
	Following(ctx context.Context, user *model.User) ([]model.User, error)
	Counts(ctx context.Context, user *model.User) (followers, following int64, err error)
}

type followService struct {
	repo repository.FollowRepository
}

// NewFollowService builds a FollowService.
func NewFollowService(repo repository.FollowRepository) FollowService {
	return &followService{repo: repo}
}

func (s *followService) Follow(ctx context.Context, follower, followed *model.User) error {
	if follower.ID == followed.ID {
		return apperrors.ErrSelfFollow
	}
	following, err := s.IsFollowing(ctx, follower, followed)
	if err != nil {
		return err
	}
	if following {
		return nil
	}
	edge := &model.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
	if err := s.repo.Create(ctx, edge); err != nil {
		return fmt.Errorf("create follow edge: %w", err)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, follower, followed *model.User) error {
	following, err := s.IsFollowing(ctx, follower, followed)
	if err != nil {
		return err
	}
	if !following {
		return nil
	}
	if err := s.repo.Delete(ctx, follower.ID, followed.ID); err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}
	return nil
}

// IsFollowing reports whether follower→followed exists. An unpersisted
// followed user (zero id) can have no edges.
func (s *followService) IsFollowing(ctx context.Context, follower, followed *model.User) (bool, error) {
	if followed.ID == 0 {
		return false, nil
	}
	return s.repo.Exists(ctx, follower.ID, followed.ID)
}

// IsFollowedBy reports whether other→user exists.
func (s *followService) IsFollowedBy(ctx context.Context, user, other *model.User) (bool, error) {
	if other.ID == 0 {
		return false, nil
	}
	return s.repo.Exists(ctx, other.ID, user.ID)
}

func (s *followService) Followers(ctx context.Context, user *model.User) ([]model.User, error) {
	return s.repo.Followers(ctx, user.ID)
}

func (s *followService) Following(ctx context.Context, user *model.User) ([]model.User, error) {
	return s.repo.Following(ctx, user.ID)
}

func (s *followService) Counts(ctx context.Context, user *model.User) (int64, int64, error) {
	followers, err := s.repo.CountFollowers(ctx, user.ID)
	if err != nil {
		return 0, 0, err
	}
	following, err := s.repo.CountFollowing(ctx, user.ID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
