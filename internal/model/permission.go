package model

// Permission is a bitmask of capabilities. Each named permission occupies a
// single bit; combined values are built with bitwise OR. The stored integer
// values are part of the persisted schema and must not change.
type Permission int

const (
	// PermFollow allows following other users.
	PermFollow Permission = 1 << iota
	// PermComment allows commenting on posts.
	PermComment
	// PermWrite allows writing posts.
	PermWrite
	// PermModerate allows moderating other users' content.
	PermModerate
	// PermAdmin grants full administrative access.
	PermAdmin
)

// Actor is the permission-checking view of whoever issued the current
// request. Both *User and AnonymousUser satisfy it, so callers never need a
// nil check before a permission query.
type Actor interface {
	Can(perm Permission) bool
	IsAdministrator() bool
}

// AnonymousUser is the null-object actor used when nobody is authenticated.
// Every permission check denies.
type AnonymousUser struct{}

// Can always returns false for anonymous actors.
func (AnonymousUser) Can(Permission) bool { return false }

// IsAdministrator always returns false for anonymous actors.
func (AnonymousUser) IsAdministrator() bool { return false }
