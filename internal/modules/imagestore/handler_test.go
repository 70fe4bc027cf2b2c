package imagestore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRepo fails the test if any storage method is reached. Used to
// prove validation rejects bad input before touching storage.
type failingRepo struct {
	t *testing.T
}

func (f *failingRepo) EnsureSchema(ctx context.Context) error {
	f.t.Fatal("storage reached on invalid input")
	return nil
}

func (f *failingRepo) Put(ctx context.Context, data []byte, filename, mimetype string) (*StoredImage, error) {
	f.t.Fatal("storage reached on invalid input")
	return nil, nil
}

func (f *failingRepo) GetByID(ctx context.Context, id int64) (*StoredImage, error) {
	f.t.Fatal("storage reached on invalid input")
	return nil, nil
}

func (f *failingRepo) GetByFilename(ctx context.Context, filename string) (*StoredImage, error) {
	f.t.Fatal("storage reached on invalid input")
	return nil, nil
}

func (f *failingRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	f.t.Fatal("storage reached on invalid input")
	return false, nil
}

// erroringRepo returns a non-sentinel error from every lookup, standing in
// for a database that is down.
type erroringRepo struct{}

func (e *erroringRepo) EnsureSchema(ctx context.Context) error { return nil }

func (e *erroringRepo) Put(ctx context.Context, data []byte, filename, mimetype string) (*StoredImage, error) {
	return nil, errDatabaseDown
}

func (e *erroringRepo) GetByID(ctx context.Context, id int64) (*StoredImage, error) {
	return nil, errDatabaseDown
}

func (e *erroringRepo) GetByFilename(ctx context.Context, filename string) (*StoredImage, error) {
	return nil, errDatabaseDown
}

func (e *erroringRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	return false, errDatabaseDown
}

var errDatabaseDown = errors.New("driver: bad connection")

func newImageRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewHandler(repo))
	return r
}

func TestGetByID_InvalidID(t *testing.T) {
	router := newImageRouter(&failingRepo{t: t})

	for _, path := range []string{"/db-image/id/abc", "/db-image/id/0", "/db-image/id/-1"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestGetByFilename_Empty(t *testing.T) {
	router := newImageRouter(&failingRepo{t: t})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/db-image/file/%20", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByID_ServesStoredBytes(t *testing.T) {
	repo, _ := setupRepo(t)
	router := newImageRouter(repo)
	payload := []byte{0x01, 0x02, 0x03}

	stored, err := repo.Put(context.Background(), payload, "x.png", "image/png")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, IDLocator(stored.ID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, `"`+stored.SHA1+`"`, w.Header().Get("ETag"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
}

func TestGetByID_NotModified(t *testing.T) {
	repo, _ := setupRepo(t)
	router := newImageRouter(repo)

	stored, err := repo.Put(context.Background(), []byte("cached"), "c.png", "image/png")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, IDLocator(stored.ID), nil)
	req.Header.Set("If-None-Match", `"`+stored.SHA1+`"`)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	router := newImageRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/db-image/id/999999", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByID_StorageError(t *testing.T) {
	router := newImageRouter(&erroringRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/db-image/id/1", nil)
	router.ServeHTTP(w, req)

	// generic body only, the driver error stays in the log
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to load image", w.Body.String())
}

func TestGetByFilename_StorageError(t *testing.T) {
	router := newImageRouter(&erroringRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/db-image/file/x.png", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to load image", w.Body.String())
}

func TestGetByFilename_ServesStoredBytes(t *testing.T) {
	repo, _ := setupRepo(t)
	router := newImageRouter(repo)
	payload := []byte("by name")

	stored, err := repo.Put(context.Background(), payload, "legacy.gif", "image/gif")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/db-image/file/legacy.gif", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
	assert.Equal(t, `"`+stored.SHA1+`"`, w.Header().Get("ETag"))
}
