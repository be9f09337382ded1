package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allPermissions() []Permission {
	return []Permission{PermFollow, PermComment, PermWrite, PermModerate, PermAdmin}
}

func TestPermissionValues(t *testing.T) {
	assert.Equal(t, Permission(1), PermFollow)
	assert.Equal(t, Permission(2), PermComment)
	assert.Equal(t, Permission(4), PermWrite)
	assert.Equal(t, Permission(8), PermModerate)
	assert.Equal(t, Permission(16), PermAdmin)

	// Single disjoint bits: no pair overlaps.
	perms := allPermissions()
	for i, a := range perms {
		for j, b := range perms {
			if i != j {
				assert.Zero(t, a&b, "permissions %d and %d overlap", a, b)
			}
		}
	}
}

func TestRoleAddRemoveHasPermission(t *testing.T) {
	for _, perm := range allPermissions() {
		role := &Role{Name: "test"}

		assert.False(t, role.HasPermission(perm))

		role.AddPermission(perm)
		assert.True(t, role.HasPermission(perm))

		// Adding twice equals adding once.
		role.AddPermission(perm)
		assert.Equal(t, perm, role.Permissions)

		role.RemovePermission(perm)
		assert.False(t, role.HasPermission(perm))

		// Removing twice equals removing once.
		role.RemovePermission(perm)
		assert.Zero(t, role.Permissions)
	}
}

func TestRoleRemoveKeepsOtherBits(t *testing.T) {
	role := &Role{}
	role.AddPermission(PermFollow)
	role.AddPermission(PermWrite)
	role.AddPermission(PermModerate)

	role.RemovePermission(PermWrite)

	assert.True(t, role.HasPermission(PermFollow))
	assert.False(t, role.HasPermission(PermWrite))
	assert.True(t, role.HasPermission(PermModerate))
}

func TestRoleHasPermissionRequiresAllBits(t *testing.T) {
	role := &Role{}
	role.AddPermission(PermFollow)
	role.AddPermission(PermComment)

	assert.True(t, role.HasPermission(PermFollow|PermComment))
	assert.False(t, role.HasPermission(PermFollow|PermWrite))
}

func TestRoleResetPermissions(t *testing.T) {
	role := &Role{}
	for _, perm := range allPermissions() {
		role.AddPermission(perm)
	}
	assert.Equal(t, Permission(31), role.Permissions)

	role.ResetPermissions()
	assert.Zero(t, role.Permissions)
	for _, perm := range allPermissions() {
		assert.False(t, role.HasPermission(perm))
	}
}

func TestCanonicalRolePermissions(t *testing.T) {
	tests := []struct {
		roleName string
		expected Permission
	}{
		{RoleUser, 7},
		{RoleModerator, 15},
		{RoleAdministrator, 31},
	}

	for _, tt := range tests {
		t.Run(tt.roleName, func(t *testing.T) {
			role := &Role{Name: tt.roleName}
			for _, perm := range CanonicalRoles[tt.roleName] {
				role.AddPermission(perm)
			}
			assert.Equal(t, tt.expected, role.Permissions)
		})
	}
}
