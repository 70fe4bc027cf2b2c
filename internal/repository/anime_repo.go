package repository

import (
	"context"
	"time"

	"animehub/internal/domain"

	"gorm.io/gorm"
)

type AnimeRepository struct {
	db *gorm.DB
}

func NewAnimeRepository(db *gorm.DB) *AnimeRepository {
	return &AnimeRepository{db: db}
}

type animeModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Title        string    `gorm:"column:title"`
	Synopsis     *string   `gorm:"column:synopsis"`
	Genre        *string   `gorm:"column:genre"`
	Year         int       `gorm:"column:year"`
	CoverURL     *string   `gorm:"column:cover_url"`
	CoverImageID *int64    `gorm:"column:cover_image_id"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (animeModel) TableName() string { return "animes" }

type episodeModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	AnimeID   int64     `gorm:"column:anime_id;index"`
	Number    int       `gorm:"column:number"`
	Title     string    `gorm:"column:title"`
	VideoURL  *string   `gorm:"column:video_url"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (episodeModel) TableName() string { return "episodes" }

type animeImageModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	AnimeID   int64     `gorm:"column:anime_id;index"`
	ImageID   int64     `gorm:"column:image_id"`
	URL       string    `gorm:"column:url"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (animeImageModel) TableName() string { return "anime_images" }

func toDomainAnime(m animeModel) *domain.Anime {
	var synopsis, genre, cover string
	if m.Synopsis != nil {
		synopsis = *m.Synopsis
	}
	if m.Genre != nil {
		genre = *m.Genre
	}
	if m.CoverURL != nil {
		cover = *m.CoverURL
	}

	return &domain.Anime{
		ID:           m.ID,
		Title:        m.Title,
		Synopsis:     synopsis,
		Genre:        genre,
		Year:         m.Year,
		CoverURL:     cover,
		CoverImageID: m.CoverImageID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toAnimeModel(a *domain.Anime) animeModel {
	var synopsis, genre, cover *string
	if a.Synopsis != "" {
		v := a.Synopsis
		synopsis = &v
	}
	if a.Genre != "" {
		v := a.Genre
		genre = &v
	}
	if a.CoverURL != "" {
		v := a.CoverURL
		cover = &v
	}

	return animeModel{
		ID:           a.ID,
		Title:        a.Title,
		Synopsis:     synopsis,
		Genre:        genre,
		Year:         a.Year,
		CoverURL:     cover,
		CoverImageID: a.CoverImageID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *AnimeRepository) Create(ctx context.Context, a *domain.Anime) error {
	m := toAnimeModel(a)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainAnime(m)
	return nil
}

func (r *AnimeRepository) GetByID(ctx context.Context, id int64) (*domain.Anime, error) {
	var m animeModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAnime(m), nil
}

func (r *AnimeRepository) List(ctx context.Context) ([]*domain.Anime, error) {
	var models []animeModel
	tx := r.db.WithContext(ctx).Order("title ASC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]*domain.Anime, len(models))
	for i, m := range models {
		out[i] = toDomainAnime(m)
	}
	return out, nil
}

func (r *AnimeRepository) Update(ctx context.Context, a *domain.Anime) error {
	m := toAnimeModel(a)
	m.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(&animeModel{}).Where("id = ?", a.ID).
		Updates(map[string]any{
			"title":          m.Title,
			"synopsis":       m.Synopsis,
			"genre":          m.Genre,
			"year":           m.Year,
			"cover_url":      m.CoverURL,
			"cover_image_id": m.CoverImageID,
			"updated_at":     m.UpdatedAt,
		}).Error
}

func (r *AnimeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&animeModel{}, id).Error
}

func (r *AnimeRepository) CreateEpisode(ctx context.Context, e *domain.Episode) error {
	m := episodeModel{
		AnimeID:   e.AnimeID,
		Number:    e.Number,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
	}
	if e.VideoURL != "" {
		v := e.VideoURL
		m.VideoURL = &v
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	return nil
}

func (r *AnimeRepository) ListEpisodes(ctx context.Context, animeID int64) ([]*domain.Episode, error) {
	var models []episodeModel
	tx := r.db.WithContext(ctx).Where("anime_id = ?", animeID).Order("number ASC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]*domain.Episode, len(models))
	for i, m := range models {
		var video string
		if m.VideoURL != nil {
			video = *m.VideoURL
		}
		out[i] = &domain.Episode{
			ID:        m.ID,
			AnimeID:   m.AnimeID,
			Number:    m.Number,
			Title:     m.Title,
			VideoURL:  video,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

func (r *AnimeRepository) AddImage(ctx context.Context, img *domain.AnimeImage) error {
	m := animeImageModel{
		AnimeID:   img.AnimeID,
		ImageID:   img.ImageID,
		URL:       img.URL,
		CreatedAt: img.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	img.ID = m.ID
	img.CreatedAt = m.CreatedAt
	return nil
}

func (r *AnimeRepository) ListImages(ctx context.Context, animeID int64) ([]*domain.AnimeImage, error) {
	var models []animeImageModel
	tx := r.db.WithContext(ctx).Where("anime_id = ?", animeID).Order("id ASC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]*domain.AnimeImage, len(models))
	for i, m := range models {
		out[i] = &domain.AnimeImage{
			ID:        m.ID,
			AnimeID:   m.AnimeID,
			ImageID:   m.ImageID,
			URL:       m.URL,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

func (r *AnimeRepository) DeleteImages(ctx context.Context, animeID int64) error {
	return r.db.WithContext(ctx).Where("anime_id = ?", animeID).Delete(&animeImageModel{}).Error
}
