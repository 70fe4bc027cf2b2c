package catalog

import (
	"context"
	"errors"
	"log"
	"time"

	"animehub/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	animes AnimeRepositoryInterface
	images ImageDeleter
}

func NewService(animes AnimeRepositoryInterface, images ImageDeleter) *Service {
	return &Service{animes: animes, images: images}
}

// CreateAnime stores a new title. coverURL/coverImageID come from the
// ingestion middleware and may be empty when no cover was attached.
func (s *Service) CreateAnime(ctx context.Context, req CreateAnimeRequest, coverURL string, coverImageID *int64) (*domain.Anime, error) {
	anime := &domain.Anime{
		Title:        req.Title,
		Synopsis:     req.Synopsis,
		Genre:        req.Genre,
		Year:         req.Year,
		CoverURL:     coverURL,
		CoverImageID: coverImageID,
	}
	if err := s.animes.Create(ctx, anime); err != nil {
		return nil, err
	}
	return anime, nil
}

func (s *Service) GetAnime(ctx context.Context, id int64) (*domain.Anime, error) {
	anime, err := s.animes.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnimeNotFound
	}
	return anime, err
}

func (s *Service) ListAnimes(ctx context.Context) ([]*domain.Anime, error) {
	return s.animes.List(ctx)
}

// UpdateAnime patches the given fields. A new cover replaces and deletes
// the previous blob.
func (s *Service) UpdateAnime(ctx context.Context, id int64, req UpdateAnimeRequest, coverURL string, coverImageID *int64) (*domain.Anime, error) {
	anime, err := s.GetAnime(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		anime.Title = *req.Title
	}
	if req.Synopsis != nil {
		anime.Synopsis = *req.Synopsis
	}
	if req.Genre != nil {
		anime.Genre = *req.Genre
	}
	if req.Year != nil {
		anime.Year = *req.Year
	}

	oldCoverID := anime.CoverImageID
	if coverImageID != nil {
		anime.CoverURL = coverURL
		anime.CoverImageID = coverImageID
	}

	if err := s.animes.Update(ctx, anime); err != nil {
		return nil, err
	}

	if coverImageID != nil && oldCoverID != nil && *oldCoverID != *coverImageID {
		s.dropImage(ctx, *oldCoverID)
	}

	return anime, nil
}

// DeleteAnime removes the title along with its cover and gallery blobs.
func (s *Service) DeleteAnime(ctx context.Context, id int64) error {
	anime, err := s.GetAnime(ctx, id)
	if err != nil {
		return err
	}

	gallery, err := s.animes.ListImages(ctx, id)
	if err != nil {
		return err
	}

	if err := s.animes.DeleteImages(ctx, id); err != nil {
		return err
	}
	if err := s.animes.Delete(ctx, id); err != nil {
		return err
	}

	if anime.CoverImageID != nil {
		s.dropImage(ctx, *anime.CoverImageID)
	}
	for _, img := range gallery {
		s.dropImage(ctx, img.ImageID)
	}
	return nil
}

// AddImages appends screenshots to an anime's gallery. records come from a
// multi-file ingestion; each entry pairs a blob id with its locator.
func (s *Service) AddImages(ctx context.Context, animeID int64, imageIDs []int64, urls []string) ([]*domain.AnimeImage, error) {
	if _, err := s.GetAnime(ctx, animeID); err != nil {
		return nil, err
	}

	out := make([]*domain.AnimeImage, 0, len(imageIDs))
	for i, imgID := range imageIDs {
		img := &domain.AnimeImage{
			AnimeID: animeID,
			ImageID: imgID,
			URL:     urls[i],
		}
		if err := s.animes.AddImage(ctx, img); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

func (s *Service) ListImages(ctx context.Context, animeID int64) ([]*domain.AnimeImage, error) {
	if _, err := s.GetAnime(ctx, animeID); err != nil {
		return nil, err
	}
	return s.animes.ListImages(ctx, animeID)
}

func (s *Service) AddEpisode(ctx context.Context, animeID int64, req CreateEpisodeRequest) (*domain.Episode, error) {
	if _, err := s.GetAnime(ctx, animeID); err != nil {
		return nil, err
	}

	ep := &domain.Episode{
		AnimeID:   animeID,
		Number:    req.Number,
		Title:     req.Title,
		VideoURL:  req.VideoURL,
		CreatedAt: time.Now(),
	}
	if err := s.animes.CreateEpisode(ctx, ep); err != nil {
		return nil, err
	}
	return ep, nil
}

func (s *Service) ListEpisodes(ctx context.Context, animeID int64) ([]*domain.Episode, error) {
	if _, err := s.GetAnime(ctx, animeID); err != nil {
		return nil, err
	}
	return s.animes.ListEpisodes(ctx, animeID)
}

func (s *Service) dropImage(ctx context.Context, id int64) {
	if _, err := s.images.DeleteByID(ctx, id); err != nil {
		log.Printf("catalog_image_cleanup error=%q image_id=%d", err, id)
	}
}
