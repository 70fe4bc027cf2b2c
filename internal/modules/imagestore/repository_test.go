package imagestore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"animehub/internal/database"
)

func setupRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to open test database")

	// a single connection serializes writers the way a server-side pool
	// would; without it the shared in-memory handle can report busy
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo, db
}

func countRowsForHash(t *testing.T, db *gorm.DB, sum string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&StoredImage{}).Where("sha1 = ?", sum).Count(&count).Error)
	return count
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	repo, _ := setupRepo(t)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestPut_ContentAddressing(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	payload := []byte{0x01, 0x02, 0x03}

	first, err := repo.Put(ctx, payload, "x.png", "image/png")
	require.NoError(t, err)
	assert.Positive(t, first.ID)
	assert.Equal(t, "x.png", first.Filename)
	assert.Equal(t, "image/png", first.Mimetype)
	assert.Equal(t, HashBytes(payload), first.SHA1)

	second, err := repo.Put(ctx, payload, "y.png", "image/webp")
	require.NoError(t, err)

	// same bytes, same row: only the metadata moved (last write wins)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "y.png", second.Filename)
	assert.Equal(t, "image/webp", second.Mimetype)
	assert.EqualValues(t, 1, countRowsForHash(t, db, first.SHA1))
}

func TestPut_DistinctPayloads(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	a, err := repo.Put(ctx, []byte("payload-a"), "a.png", "image/png")
	require.NoError(t, err)
	b, err := repo.Put(ctx, []byte("payload-b"), "b.png", "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.SHA1, b.SHA1)

	var total int64
	require.NoError(t, db.Model(&StoredImage{}).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}

func TestPut_RoundTrip(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff, 0x10}

	stored, err := repo.Put(ctx, payload, "img.png", "image/png")
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, got.Data)
}

func TestPut_EmptyPayload(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.Put(context.Background(), nil, "empty.png", "image/png")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestPut_DefaultsNameAndType(t *testing.T) {
	repo, _ := setupRepo(t)

	stored, err := repo.Put(context.Background(), []byte("anon"), "", "")
	require.NoError(t, err)
	assert.Equal(t, stored.SHA1, stored.Filename)
	assert.Equal(t, "application/octet-stream", stored.Mimetype)
}

func TestGetByID_Miss(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.GetByID(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestGetByFilename(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	stored, err := repo.Put(ctx, []byte("named"), "poster.webp", "image/webp")
	require.NoError(t, err)

	got, err := repo.GetByFilename(ctx, "poster.webp")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)

	_, err = repo.GetByFilename(ctx, "missing.webp")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestDeleteByID_Idempotent(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	stored, err := repo.Put(ctx, []byte("doomed"), "d.png", "image/png")
	require.NoError(t, err)

	removed, err := repo.DeleteByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = repo.DeleteByID(ctx, 424242)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPut_ConcurrentDelete(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	payload := []byte("uploaded and purged in a loop")
	sum := HashBytes(payload)

	// writers re-upload the same bytes while a janitor keeps deleting the
	// row; Put ensures and reloads inside one transaction, so it must hand
	// back a live record every time no matter how the delete interleaves
	const writers = 4
	const rounds = 25
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for n := 0; n < writers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				rec, err := repo.Put(ctx, payload, "churn.png", "image/png")
				if err != nil {
					errs[n] = err
					return
				}
				if rec == nil || rec.ID <= 0 {
					errs[n] = fmt.Errorf("put returned no record on round %d", i)
					return
				}
			}
		}(n)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			var m StoredImage
			if err := db.Where("sha1 = ?", sum).First(&m).Error; err != nil {
				continue
			}
			_, _ = repo.DeleteByID(ctx, m.ID)
		}
	}()
	wg.Wait()

	for n := 0; n < writers; n++ {
		require.NoError(t, errs[n])
	}
}

func TestPut_ConcurrentIdenticalUploads(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	payload := []byte("everyone uploads the same poster")

	const workers = 16
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rec, err := repo.Put(ctx, payload, fmt.Sprintf("copy-%d.png", n), "image/png")
			if err != nil {
				errs[n] = err
				return
			}
			ids[n] = rec.ID
		}(n)
	}
	wg.Wait()

	for n := 0; n < workers; n++ {
		require.NoError(t, errs[n])
		assert.Equal(t, ids[0], ids[n])
	}
	assert.EqualValues(t, 1, countRowsForHash(t, db, HashBytes(payload)))
}
