package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPasswordIsWriteOnly(t *testing.T) {
	user := &User{}
	assert.NoError(t, user.SetPassword("cat"))

	value, err := user.Password()
	assert.ErrorIs(t, err, ErrPasswordWriteOnly)
	assert.Empty(t, value)
}

func TestUserVerifyPassword(t *testing.T) {
	user := &User{}
	assert.NoError(t, user.SetPassword("cat"))

	assert.True(t, user.VerifyPassword("cat"))
	assert.False(t, user.VerifyPassword("dog"))
}

func TestUserSetPasswordReplacesHash(t *testing.T) {
	user := &User{}
	assert.NoError(t, user.SetPassword("cat"))
	assert.NoError(t, user.SetPassword("dog"))

	assert.False(t, user.VerifyPassword("cat"))
	assert.True(t, user.VerifyPassword("dog"))
}

func TestUserPasswordSaltsAreRandom(t *testing.T) {
	a, b := &User{}, &User{}
	assert.NoError(t, a.SetPassword("cat"))
	assert.NoError(t, b.SetPassword("cat"))

	// Same plaintext, different salts, different hashes.
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
}

func TestUserCan(t *testing.T) {
	userRole := &Role{Name: RoleUser}
	for _, perm := range CanonicalRoles[RoleUser] {
		userRole.AddPermission(perm)
	}

	user := &User{Role: userRole}
	assert.True(t, user.Can(PermFollow))
	assert.True(t, user.Can(PermComment))
	assert.True(t, user.Can(PermWrite))
	assert.False(t, user.Can(PermModerate))
	assert.False(t, user.Can(PermAdmin))
	assert.False(t, user.IsAdministrator())
}

func TestUserCanWithoutRole(t *testing.T) {
	user := &User{}
	for _, perm := range allPermissions() {
		assert.False(t, user.Can(perm))
	}
	assert.False(t, user.IsAdministrator())
}

func TestUserIsAdministrator(t *testing.T) {
	adminRole := &Role{Name: RoleAdministrator}
	for _, perm := range CanonicalRoles[RoleAdministrator] {
		adminRole.AddPermission(perm)
	}

	admin := &User{Role: adminRole}
	assert.True(t, admin.IsAdministrator())
	for _, perm := range allPermissions() {
		assert.True(t, admin.Can(perm))
	}
}

func TestAnonymousUserDeniesEverything(t *testing.T) {
	anon := AnonymousUser{}

	for _, perm := range allPermissions() {
		assert.False(t, anon.Can(perm))
	}
	assert.False(t, anon.Can(0))
	assert.False(t, anon.Can(PermFollow|PermComment|PermWrite|PermModerate|PermAdmin))
	assert.False(t, anon.IsAdministrator())
}

func TestAnonymousUserSatisfiesActor(t *testing.T) {
	var actor Actor = AnonymousUser{}
	assert.False(t, actor.Can(PermWrite))

	actor = &User{}
	assert.False(t, actor.Can(PermWrite))
}
