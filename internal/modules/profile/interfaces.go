package profile

import (
	"context"

	"animehub/internal/domain"
)

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID int64, url string, imageID *int64) error
	UpdateCover(ctx context.Context, userID int64, url string, imageID *int64) error
}

// ImageDeleter is the slice of the image store the profile service needs:
// dropping the blob a replaced avatar or cover used to point at.
type ImageDeleter interface {
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
