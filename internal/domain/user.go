package domain

import (
	"context"
	"time"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by
// the repository on create.
func NewUser(name, email, phone string, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, hash, salt string) error
	Delete(ctx context.Context, id string) error
}

// UserService defines the business logic for signup, login, and profiles.
type UserService interface {
	SignUp(ctx context.Context, name, email, password, phone string) (*User, error)
	LogIn(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	// UpdateProfile updates name, phone, location, and profile image. It
	// never touches past attendee snapshots.
	UpdateProfile(ctx context.Context, user *User) (*User, error)
	// ChangePassword verifies the current password before storing a new
	// hash. A wrong current password yields ErrInvalidCredentials.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// DeleteAccount removes the user. Attendee snapshots on events they
	// joined are kept; only the account itself goes away.
	DeleteAccount(ctx context.Context, userID string) (*User, error)
}
