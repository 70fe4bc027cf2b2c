package imagestore

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler serves stored image bytes back over HTTP. Content is immutable
// once stored, which is what makes the aggressive cache headers safe.
type Handler struct {
	images Repository
}

func NewHandler(images Repository) *Handler {
	return &Handler{images: images}
}

// GetByID godoc
// @Summary Serve an image by its numeric id
// @Description Streams the stored binary with its mimetype, an ETag derived from the content hash and a one-year immutable cache directive.
// @Tags Images
// @Produce image/*
// @Param id path int true "Image ID"
// @Success 200 {file} binary
// @Failure 400,404,500 {object} map[string]interface{}
// @Router /db-image/id/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid image id")
		return
	}

	img, err := h.images.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serveError(c, err, "id", c.Param("id"))
		return
	}
	h.serveImage(c, img)
}

// GetByFilename godoc
// @Summary Serve an image by its original filename
// @Description Compatibility lookup for old-style links. Filenames are last-write-wins; prefer the by-id route.
// @Tags Images
// @Produce image/*
// @Param filename path string true "Original filename"
// @Success 200 {file} binary
// @Failure 400,404,500 {object} map[string]interface{}
// @Router /db-image/file/{filename} [get]
func (h *Handler) GetByFilename(c *gin.Context) {
	filename := strings.TrimSpace(c.Param("filename"))
	if filename == "" {
		c.String(http.StatusBadRequest, "invalid filename")
		return
	}

	img, err := h.images.GetByFilename(c.Request.Context(), filename)
	if err != nil {
		h.serveError(c, err, "filename", filename)
		return
	}
	h.serveImage(c, img)
}

func (h *Handler) serveImage(c *gin.Context, img *StoredImage) {
	etag := `"` + img.SHA1 + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "public, max-age=31536000, immutable")

	if match := c.GetHeader("If-None-Match"); match != "" && strings.Contains(match, etag) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, img.Mimetype, img.Data)
}

func (h *Handler) serveError(c *gin.Context, err error, keyKind, key string) {
	if errors.Is(err, ErrImageNotFound) {
		c.String(http.StatusNotFound, "image not found")
		return
	}
	log.Printf("imagestore_get error=%q %s=%s", err, keyKind, key)
	c.String(http.StatusInternalServerError, "failed to load image")
}
