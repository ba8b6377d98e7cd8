package model

import "time"

// Role values stored in the user_login.role column.  ADMIN and ASPADMIN
// may create QR codes; every authenticated user may claim and manage
// codes bound to their own profile.
const (
	RoleUser     = "USER"
	RoleAdmin    = "ADMIN"
	RoleAspAdmin = "ASPADMIN"
)

// User mirrors the `user_login` table.  PasswordHash is nil for accounts
// created through Google sign-in; such accounts cannot log in with a
// password.  The audit columns (CreatedBy / UpdatedBy) reference the
// acting user and are nullable because self-registration has no actor.
//
// Fields:
//  ID           – CHAR(36) UUID primary key.
//  Name         – display name taken from the registration request or the
//                 Google `name` claim.
//  Email        – unique login email (user_login.email_id).
//  PasswordHash – bcrypt hash, nil for OAuth-only accounts.
//  Role         – USER, ADMIN or ASPADMIN.
//  IsActive     – soft-deletion flag (user_login.active_flag).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	CreatedBy    *string
	UpdatedAt    time.Time
	UpdatedBy    *string
}

// IsAdmin reports whether the user holds one of the QR-creation roles.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleAspAdmin
}
