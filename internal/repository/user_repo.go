package repository

import (
	"context"
	"strings"
	"time"

	"animehub/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name"`
	Email         string    `gorm:"column:email;uniqueIndex"`
	PasswordHash  string    `gorm:"column:password_hash"`
	Role          string    `gorm:"column:role"`
	Bio           *string   `gorm:"column:bio"`
	AvatarURL     *string   `gorm:"column:avatar_url"`
	AvatarImageID *int64    `gorm:"column:avatar_image_id"`
	CoverURL      *string   `gorm:"column:cover_url"`
	CoverImageID  *int64    `gorm:"column:cover_image_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var bio, avatar, cover string
	if m.Bio != nil {
		bio = *m.Bio
	}
	if m.AvatarURL != nil {
		avatar = *m.AvatarURL
	}
	if m.CoverURL != nil {
		cover = *m.CoverURL
	}

	return &domain.User{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Role:          domain.UserRole(m.Role),
		Bio:           bio,
		AvatarURL:     avatar,
		AvatarImageID: m.AvatarImageID,
		CoverURL:      cover,
		CoverImageID:  m.CoverImageID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var bio, avatar, cover *string
	if u.Bio != "" {
		v := u.Bio
		bio = &v
	}
	if u.AvatarURL != "" {
		v := u.AvatarURL
		avatar = &v
	}
	if u.CoverURL != "" {
		v := u.CoverURL
		cover = &v
	}

	return userModel{
		ID:            u.ID,
		Name:          u.Name,
		Email:         email,
		PasswordHash:  u.PasswordHash,
		Role:          string(u.Role),
		Bio:           bio,
		AvatarURL:     avatar,
		AvatarImageID: u.AvatarImageID,
		CoverURL:      cover,
		CoverImageID:  u.CoverImageID,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count)
	return count > 0, tx.Error
}

// UpdateAvatar swaps the stored avatar locator. The image id rides along so
// the profile service can delete the previous blob.
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, url string, imageID *int64) error {
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", userID).
		Updates(map[string]any{
			"avatar_url":      url,
			"avatar_image_id": imageID,
			"updated_at":      time.Now(),
		}).Error
}

func (r *UserRepository) UpdateCover(ctx context.Context, userID int64, url string, imageID *int64) error {
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", userID).
		Updates(map[string]any{
			"cover_url":      url,
			"cover_image_id": imageID,
			"updated_at":     time.Now(),
		}).Error
}
