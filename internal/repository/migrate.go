package repository

import "gorm.io/gorm"

// AutoMigrate creates the application tables. The image-blob table has its
// own EnsureSchema in the imagestore package.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&animeModel{},
		&episodeModel{},
		&animeImageModel{},
	)
}
