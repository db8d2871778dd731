package model

import "time"

// User represents a registered identity as stored in the `users` table.
// Email is the stable unique key and never changes after creation. Username
// is unique as well; when a user is created without an explicit username it
// is set equal to the email. Role defaults to RoleUser. Superuser is an
// orthogonal escape hatch treated as admin by the permission checks.
//
// LastLoginAt moves on every successful token issuance, which also rolls the
// confirmation-code state fingerprint (see internal/auth).
type User struct {
	ID          uint64     `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	Role        Role       `json:"role"`
	Superuser   bool       `json:"-"`
	Bio         string     `json:"bio"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// IsModerator reports whether the user holds the moderator role exactly.
func (u User) IsModerator() bool { return u.Role == RoleModerator }

// IsAdmin reports whether the user is an admin or superuser.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin || u.Superuser }
