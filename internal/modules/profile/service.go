package profile

import (
	"context"
	"log"
)

// Service updates the image references on a user's profile. The ingestion
// middleware has already stored the new blob by the time these run; the
// service only swaps locators and drops the blob they replaced.
type Service struct {
	users  UserRepositoryInterface
	images ImageDeleter
}

func NewService(users UserRepositoryInterface, images ImageDeleter) *Service {
	return &Service{users: users, images: images}
}

func (s *Service) UpdateAvatar(ctx context.Context, userID int64, url string, imageID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.UpdateAvatar(ctx, userID, url, &imageID); err != nil {
		return err
	}

	// The old blob is orphaned after the swap. Losing it is not fatal to
	// the request; it only leaves a dead row behind.
	s.dropOld(ctx, user.AvatarImageID, imageID)
	return nil
}

func (s *Service) UpdateCover(ctx context.Context, userID int64, url string, imageID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.UpdateCover(ctx, userID, url, &imageID); err != nil {
		return err
	}

	s.dropOld(ctx, user.CoverImageID, imageID)
	return nil
}

func (s *Service) dropOld(ctx context.Context, oldID *int64, newID int64) {
	if oldID == nil || *oldID == newID {
		return
	}
	if _, err := s.images.DeleteByID(ctx, *oldID); err != nil {
		log.Printf("profile_image_cleanup error=%q image_id=%d", err, *oldID)
	}
}
