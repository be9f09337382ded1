package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bloggy/internal/model"
)

// fakeRoleRepo is an in-memory RoleRepository, enough to exercise the
// seeding convergence without a database.
type fakeRoleRepo struct {
	nextID uint
	roles  map[uint]*model.Role
	// duplicateOnCreate simulates losing the startup race: the first Create
	// per name fails with a duplicate key after another process inserted
	// the row.
	duplicateOnCreate bool
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{nextID: 1, roles: make(map[uint]*model.Role)}
}

func (f *fakeRoleRepo) insert(role *model.Role) {
	copied := *role
	copied.ID = f.nextID
	f.nextID++
	f.roles[copied.ID] = &copied
	role.ID = copied.ID
}

func (f *fakeRoleRepo) Create(ctx context.Context, role *model.Role) error {
	for _, existing := range f.roles {
		if existing.Name == role.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if f.duplicateOnCreate {
		// The concurrent process wins the insert.
		f.insert(&model.Role{Name: role.Name})
		return gorm.ErrDuplicatedKey
	}
	f.insert(role)
	return nil
}

func (f *fakeRoleRepo) Save(ctx context.Context, role *model.Role) error {
	if role.ID == 0 {
		f.insert(role)
		return nil
	}
	copied := *role
	f.roles[role.ID] = &copied
	return nil
}

func (f *fakeRoleRepo) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	if role, ok := f.roles[id]; ok {
		copied := *role
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleRepo) FindByName(ctx context.Context, name string) (*model.Role, error) {
	for _, role := range f.roles {
		if role.Name == name {
			copied := *role
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleRepo) FindDefault(ctx context.Context) (*model.Role, error) {
	for _, role := range f.roles {
		if role.Default {
			copied := *role
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleRepo) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	for _, role := range f.roles {
		roles = append(roles, *role)
	}
	return roles, nil
}

func assertCanonicalState(t *testing.T, repo *fakeRoleRepo) {
	t.Helper()

	roles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 3)

	byName := make(map[string]model.Role, len(roles))
	defaults := 0
	for _, role := range roles {
		byName[role.Name] = role
		if role.Default {
			defaults++
		}
	}

	assert.Equal(t, 1, defaults, "exactly one default role")
	assert.True(t, byName[model.RoleUser].Default)
	assert.Equal(t, model.Permission(7), byName[model.RoleUser].Permissions)
	assert.False(t, byName[model.RoleModerator].Default)
	assert.Equal(t, model.Permission(15), byName[model.RoleModerator].Permissions)
	assert.False(t, byName[model.RoleAdministrator].Default)
	assert.Equal(t, model.Permission(31), byName[model.RoleAdministrator].Permissions)
}

func TestRoleService_SeedRoles(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo)

	require.NoError(t, svc.SeedRoles(context.Background()))
	assertCanonicalState(t, repo)
}

func TestRoleService_SeedRolesIsIdempotent(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo)

	require.NoError(t, svc.SeedRoles(context.Background()))
	require.NoError(t, svc.SeedRoles(context.Background()))
	assertCanonicalState(t, repo)
}

func TestRoleService_SeedRolesConvergesAfterDrift(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo)
	ctx := context.Background()

	require.NoError(t, svc.SeedRoles(ctx))

	// Drift the table: wrong permissions, wrong default flags.
	for _, role := range repo.roles {
		role.Permissions = model.PermAdmin
		role.Default = role.Name == model.RoleModerator
	}

	require.NoError(t, svc.SeedRoles(ctx))
	assertCanonicalState(t, repo)
}

func TestRoleService_SeedRolesSurvivesInsertRace(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.duplicateOnCreate = true
	svc := NewRoleService(repo)

	require.NoError(t, svc.SeedRoles(context.Background()))
	assertCanonicalState(t, repo)
}

func TestRoleService_PermissionEdits(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewRoleService(repo)
	ctx := context.Background()
	require.NoError(t, svc.SeedRoles(ctx))

	user, err := repo.FindByName(ctx, model.RoleUser)
	require.NoError(t, err)

	role, err := svc.AddPermission(ctx, user.ID, model.PermModerate)
	require.NoError(t, err)
	assert.True(t, role.HasPermission(model.PermModerate))

	role, err = svc.RemovePermission(ctx, user.ID, model.PermModerate)
	require.NoError(t, err)
	assert.False(t, role.HasPermission(model.PermModerate))

	role, err = svc.ResetPermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, role.Permissions)
}
