package domain

import "time"

// Role is the privilege level carried by a user and every token issued for them.
type Role string

const (
	RoleRegular Role = "Regular"
	RoleAdmin   Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleAdmin
}

// User models a registered account.
//
// RefreshToken mirrors the single currently valid rotation token. An empty
// value means the account has no active session.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the claim set tokens are issued for.
func (u *User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}

// Identity is the caller resolved from a verified token. It lives for a
// single request and is never persisted.
type Identity struct {
	ID        string
	Email     string
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Complete reports whether every identity field is present. Tokens whose
// claims fail this check come from an incompatible claim schema.
func (i Identity) Complete() bool {
	return i.ID != "" && i.Email != "" && i.Username != "" && i.Role != ""
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
