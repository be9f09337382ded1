package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "bloggy/internal/errors"
	"bloggy/internal/model"
	"bloggy/internal/repository"
)

// PostService exposes the post operations the permission checks gate:
// writing requires PermWrite, editing someone else's post requires
// PermAdmin.
type PostService interface {
	CreatePost(ctx context.Context, author *model.User, body string) (*model.Post, error)
	EditPost(ctx context.Context, actor *model.User, postID uint, body string) (*model.Post, error)
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]model.Post, error)
}

type postService struct {
	repo repository.PostRepository
}

// NewPostService builds a PostService.
func NewPostService(repo repository.PostRepository) PostService {
	return &postService{repo: repo}
}

func (s *postService) CreatePost(ctx context.Context, author *model.User, body string) (*model.Post, error) {
	if !author.Can(model.PermWrite) {
		return nil, apperrors.ErrForbidden
	}
	post := &model.Post{Body: body, AuthorID: author.ID}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *postService) EditPost(ctx context.Context, actor *model.User, postID uint, body string) (*model.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if actor.ID != post.AuthorID && !actor.Can(model.PermAdmin) {
		return nil, apperrors.ErrForbidden
	}
	post.Body = body
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) ListByAuthor(ctx context.Context, authorID uint) ([]model.Post, error) {
	return s.repo.ListByAuthor(ctx, authorID)
}
