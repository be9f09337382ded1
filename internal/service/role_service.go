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

// RoleService seeds the canonical role table and applies administrative
// permission edits.
type RoleService interface {
	// SeedRoles upserts the canonical roles. Running it repeatedly, or from
	// several processes at once, converges to the same three rows with
	// "User" as the single default.
	SeedRoles(ctx context.Context) error
	ListRoles(ctx context.Context) ([]model.Role, error)
	AddPermission(ctx context.Context, roleID uint, perm model.Permission) (*model.Role, error)
	RemovePermission(ctx context.Context, roleID uint, perm model.Permission) (*model.Role, error)
	ResetPermissions(ctx context.Context, roleID uint) (*model.Role, error)
}

type roleService struct {
	repo repository.RoleRepository
}

// NewRoleService builds a RoleService.
func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

func (s *roleService) SeedRoles(ctx context.Context) error {
	for name, perms := range model.CanonicalRoles {
		role, err := s.repo.FindByName(ctx, name)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			role = &model.Role{Name: name}
			if err := s.repo.Create(ctx, role); err != nil {
				// Another process won the insert race; take its row.
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("create role %q: %w", name, err)
				}
				if role, err = s.repo.FindByName(ctx, name); err != nil {
					return fmt.Errorf("refetch role %q: %w", name, err)
				}
			}
		case err != nil:
			return fmt.Errorf("find role %q: %w", name, err)
		}

		role.ResetPermissions()
		for _, perm := range perms {
			role.AddPermission(perm)
		}
		role.Default = name == model.RoleUser
		if err := s.repo.Save(ctx, role); err != nil {
			return fmt.Errorf("save role %q: %w", name, err)
		}
	}
	return nil
}

func (s *roleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.repo.List(ctx)
}

func (s *roleService) AddPermission(ctx context.Context, roleID uint, perm model.Permission) (*model.Role, error) {
	return s.mutate(ctx, roleID, func(role *model.Role) { role.AddPermission(perm) })
}

func (s *roleService) RemovePermission(ctx context.Context, roleID uint, perm model.Permission) (*model.Role, error) {
	return s.mutate(ctx, roleID, func(role *model.Role) { role.RemovePermission(perm) })
}

func (s *roleService) ResetPermissions(ctx context.Context, roleID uint) (*model.Role, error) {
	return s.mutate(ctx, roleID, func(role *model.Role) { role.ResetPermissions() })
}

func (s *roleService) mutate(ctx context.Context, roleID uint, apply func(*model.Role)) (*model.Role, error) {
	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role %d: %w", roleID, err)
	}
	apply(role)
	if err := s.repo.Save(ctx, role); err != nil {
		return nil, fmt.Errorf("save role %d: %w", roleID, err)
	}
	return role, nil
}
