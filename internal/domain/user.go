package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

const (
	DefaultAvatarURL = "/images/default-avatar.png"
	DefaultCoverURL  = "/images/default-cover.png"
)

type User struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email" validate:"required,email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	Bio          string   `json:"bio,omitempty"`

	// AvatarURL / CoverURL hold image locators (/db-image/id/42); the
	// matching *ImageID fields let us drop the old blob when replaced.
	AvatarURL     string `json:"avatar_url"`
	AvatarImageID *int64 `json:"-"`
	CoverURL      string `json:"cover_url"`
	CoverImageID  *int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
