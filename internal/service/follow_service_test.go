package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "bloggy/internal/errors"
	"bloggy/internal/model"
)

// MockFollowRepository is a mock implementation of FollowRepository.
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(ctx context.Context, edge *model.Follow) error {
	args := m.Called(ctx, edge)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerID, followedID uint) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Followers(ctx context.Context, userID uint) ([]model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockFollowRepository) Following(ctx context.Context, userID uint) ([]model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestFollowService_Follow(t *testing.T) {
	repo := new(MockFollowRepository)
	repo.On("Exists", mock.Anything, uint(1), uint(2)).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(edge *model.Follow) bool {
		return edge.FollowerID == 1 && edge.FollowedID == 2
	})).Return(nil)

	svc := NewFollowService(repo)
	err := svc.Follow(context.Background(), &model.User{ID: 1}, &model.User{ID: 2})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestFollowService_FollowTwiceCreatesOneEdge(t *testing.T) {
	repo := new(MockFollowRepository)
	repo.On("Exists", mock.Anything, uint(1), uint(2)).Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Follow")).Return(nil).Once()
	repo.On("Exists", mock.Anything, uint(1), uint(2)).Return(true, nil).Once()

	svc := NewFollowService(repo)
	a, b := &model.User{ID: 1}, &model.User{ID: 2}

	require.NoError(t, svc.Follow(context.Background(), a, b))
	require.NoError(t, svc.Follow(context.Background(), a, b))

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestFollowService_FollowSelf(t *testing.T) {
	repo := new(MockFollowRepository)
	svc := NewFollowService(repo)

	user := &model.User{ID: 1}
	err := svc.Follow(context.Background(), user, user)
	assert.ErrorIs(t, err, apperrors.ErrSelfFollow)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFollowService_UnfollowAbsentEdgeIsNoop(t *testing.T) {
	repo := new(MockFollowRepository)
	repo.On("Exists", mock.Anything, uint(1), uint(2)).Return(false, nil)

	svc := NewFollowService(repo)
	err := svc.Unfollow(context.Background(), &model.User{ID: 1}, &model.User{ID: 2})
	require.NoError(t, err)

	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollowService_Unfollow(t *testing.T) {
	repo := new(MockFollowRepository)
	repo.On("Exists", mock.Anything, uint(1), uint(2)).Return(true, nil)
	repo.On("Delete", mock.Anything, uint(1), uint(2)).Return(nil)

	svc := NewFollowService(repo)
	err := svc.Unfollow(context.Background(), &model.User{ID: 1}, &model.User{ID: 2})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestFollowService_IsFollowingUnpersistedUser(t *testing.T) {
	repo := new(MockFollowRepository)
	svc := NewFollowService(repo)

	// A user without an id cannot be followed yet; no storage lookup happens.
	following, err := svc.IsFollowing(context.Background(), &model.User{ID: 1}, &model.User{})
	require.NoError(t, err)
	assert.False(t, following)

	followedBy, err := svc.IsFollowedBy(context.Background(), &model.User{ID: 1}, &model.User{})
	require.NoError(t, err)
	assert.False(t, followedBy)

	repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollowService_IsFollowedBy(t *testing.T) {
	repo := new(MockFollowRepository)
	// is_followed_by(user, other) checks the reverse edge other->user.
	repo.On("Exists", mock.Anything, uint(2), uint(1)).Return(true, nil)

	svc := NewFollowService(repo)
	followedBy, err := svc.IsFollowedBy(context.Background(), &model.User{ID: 1}, &model.User{ID: 2})
	require.NoError(t, err)
	assert.True(t, followedBy)

	repo.AssertExpectations(t)
}

func TestFollowService_Counts(t *testing.T) {
	repo := new(MockFollowRepository)
	repo.On("CountFollowers", mock.Anything, uint(1)).Return(int64(3), nil)
	repo.On("CountFollowing", mock.Anything, uint(1)).Return(int64(7), nil)

	svc := NewFollowService(repo)
	followers, following, err := svc.Counts(context.Background(), &model.User{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), followers)
	assert.Equal(t, int64(7), following)
}
