package model

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// ErrPasswordWriteOnly is returned on any attempt to read a stored
// password. Hitting it indicates a programming error upstream; the
// plaintext is never recoverable from the hash.
var ErrPasswordWriteOnly = errors.New("password is write-only and cannot be read")

// User is an account on the site. The password is write-only: SetPassword
// stores a salted bcrypt hash, Password always fails, and VerifyPassword is
// the only way to check a candidate.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:64;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Confirmed    bool      `json:"confirmed" gorm:"default:false"`
	Name         string    `json:"name,omitempty" gorm:"size:64"`
	Location     string    `json:"location,omitempty" gorm:"size:64"`
	AboutMe      string    `json:"about_me,omitempty" gorm:"type:text"`
	MemberSince  time.Time `json:"member_since" gorm:"autoCreateTime"`
	LastSeen     time.Time `json:"last_seen" gorm:"autoCreateTime"`

	RoleID uint  `json:"role_id" gorm:"index;not null"`
	Role   *Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// TableName keeps the table name the schema expects.
func (User) TableName() string { return "users" }

// SetPassword replaces the stored hash with a salted bcrypt hash of plain.
// The plaintext is not retained; identical passwords hash differently
// across users because bcrypt salts each hash.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// Password always fails with ErrPasswordWriteOnly. It exists so that the
// read attempt is loud instead of silently returning a zero value.
func (u *User) Password() (string, error) {
	return "", ErrPasswordWriteOnly
}

// VerifyPassword reports whether candidate matches the stored hash.
func (u *User) VerifyPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// Can reports whether the user's role includes perm. A user whose role is
// not loaded can do nothing.
func (u *User) Can(perm Permission) bool {
	return u.Role != nil && u.Role.HasPermission(perm)
}

// IsAdministrator reports whether the user holds the admin permission.
func (u *User) IsAdministrator() bool {
	return u.Can(PermAdmin)
}
