package catalog

import (
	"context"

	"animehub/internal/domain"
)

type AnimeRepositoryInterface interface {
	Create(ctx context.Context, a *domain.Anime) error
	GetByID(ctx context.Context, id int64) (*domain.Anime, error)
	List(ctx context.Context) ([]*domain.Anime, error)
	Update(ctx context.Context, a *domain.Anime) error
	Delete(ctx context.Context, id int64) error
	CreateEpisode(ctx context.Context, e *domain.Episode) error
	ListEpisodes(ctx context.Context, animeID int64) ([]*domain.Episode, error)
	AddImage(ctx context.Context, img *domain.AnimeImage) error
	ListImages(ctx context.Context, animeID int64) ([]*domain.AnimeImage, error)
	DeleteImages(ctx context.Context, animeID int64) error
}

type ImageDeleter interface {
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
