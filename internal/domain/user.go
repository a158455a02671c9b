package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleUser    Role = "user"
	RoleBlogger Role = "blogger"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleBlogger
}

// User represents a registered reader or blogger.
type User struct {
	ID             uuid.UUID `json:"id"              db:"id"`
	Name           string    `json:"name"            db:"name"`
	Email          string    `json:"email"           db:"email"`
	HashedPassword string    `json:"-"               db:"password_hash"`
	Role           Role      `json:"role"            db:"role"`
	ProfilePicture string    `json:"profilePicture"  db:"profile_picture"`
	CreatedAt      time.Time `json:"createdAt"       db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt"       db:"updated_at"`
}

// NewUser creates a User with a fresh ID and timestamps. An empty role
// defaults to RoleUser. The password must already be hashed.
func NewUser(name, email, hashedPassword string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	now := time.Now().UTC()
	u := &User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the invariants the database does not enforce by itself.
func (u *User) Validate() error {
	switch {
	case u.ID == uuid.Nil:
		return NewValidationError("user ID cannot be empty")
	case u.Name == "":
		return NewValidationError("name cannot be empty")
	case u.Email == "":
		return NewValidationError("email cannot be empty")
	case u.HashedPassword == "":
		return NewValidationError("hashed password cannot be empty")
	case !u.Role.Valid():
		return NewValidationError("role must be one of: user, blogger")
	}
	return nil
}

// Author is the projection of a User embedded in post responses.
type Author struct {
	ID             uuid.UUID `json:"id"             db:"id"`
	Name           string    `json:"name"           db:"name"`
	ProfilePicture string    `json:"profilePicture" db:"profile_picture"`
}
