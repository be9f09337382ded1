package model

import "time"

// Canonical role names seeded at startup.
const (
	RoleUser          = "User"
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

// CanonicalRoles maps each seeded role name to its permission set. The
// "User" role is the default assigned at registration.
var CanonicalRoles = map[string][]Permission{
	RoleUser:          {PermFollow, PermComment, PermWrite},
	RoleModerator:     {PermFollow, PermComment, PermWrite, PermModerate},
	RoleAdministrator: {PermFollow, PermComment, PermWrite, PermModerate, PermAdmin},
}

// Role is a named bundle of permissions. Exactly one role carries
// Default=true at steady state; it is assigned to new users that don't
// match the administrator email.
type Role struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"uniqueIndex;size:64;not null"`
	Default     bool       `json:"default" gorm:"default:false;index"`
	Permissions Permission `json:"permissions" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// TableName keeps the table name the schema expects.
func (Role) TableName() string { return "roles" }

// HasPermission reports whether the role's combined permission value
// includes every bit of perm.
func (r *Role) HasPermission(perm Permission) bool {
	return r.Permissions&perm == perm
}

// AddPermission sets the permission bits. Idempotent.
func (r *Role) AddPermission(perm Permission) {
	r.Permissions |= perm
}

// RemovePermission clears the permission bits. Idempotent.
func (r *Role) RemovePermission(perm Permission) {
	r.Permissions &^= perm
}

// ResetPermissions clears all permissions.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}
