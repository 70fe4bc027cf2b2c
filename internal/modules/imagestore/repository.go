package imagestore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	EnsureSchema(ctx context.Context) error
	Put(ctx context.Context, data []byte, filename, mimetype string) (*StoredImage, error)
	GetByID(ctx context.Context, id int64) (*StoredImage, error)
	GetByFilename(ctx context.Context, filename string) (*StoredImage, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// EnsureSchema creates the stored_images table if it does not exist yet.
// Safe to call repeatedly and from concurrent processes.
func (r *repository) EnsureSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&StoredImage{})
}

// Put stores a payload under its content hash. Re-uploading byte-identical
// content never creates a second row: the insert carries an ON CONFLICT
// clause on sha1 that refreshes filename and mimetype (last write wins) and
// leaves the payload untouched. The single statement is what keeps two
// concurrent uploads of the same bytes from racing into duplicate rows.
func (r *repository) Put(ctx context.Context, data []byte, filename, mimetype string) (*StoredImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	sum := HashBytes(data)
	if filename == "" {
		filename = sum
	}
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	m := StoredImage{
		Filename: filename,
		Mimetype: mimetype,
		SHA1:     sum,
		Data:     data,
	}

	// On the conflict path not every driver reports the id of the updated
	// row, so reload by hash afterwards. The reload shares the insert's
	// transaction; a concurrent delete cannot land between the two.
	var out StoredImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sha1"}},
			DoUpdates: clause.AssignmentColumns([]string{"filename", "mimetype"}),
		}).Create(&m).Error; err != nil {
			return err
		}
		return tx.Where("sha1 = ?", sum).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*StoredImage, error) {
	var m StoredImage
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByFilename is the compatibility lookup for old-style links. Filenames
// are last-write-wins and not unique, so prefer GetByID where possible.
func (r *repository) GetByFilename(ctx context.Context, filename string) (*StoredImage, error) {
	var m StoredImage
	err := r.db.WithContext(ctx).Where("filename = ?", filename).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteByID removes a stored image. Deleting an id that does not exist is
// not an error; the boolean reports whether a row was actually removed.
func (r *repository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&StoredImage{}, id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
