package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"animehub/internal/modules/imagestore"
	"animehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only catalog surface.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	animes := v1.Group("/animes")
	{
		animes.GET("", h.List)
		animes.GET("/:id", h.GetByID)
		animes.GET("/:id/episodes", h.ListEpisodes)
		animes.GET("/:id/images", h.ListImages)
	}
}

// RegisterAdminRoutes mounts the mutating surface. Covers and screenshots
// go through the ingestion middleware; by the time a handler runs the blobs
// are stored and only locators remain.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup, ingest *imagestore.Ingestor) {
	animes := admin.Group("/animes")
	{
		animes.POST("", ingest.Persist("cover"), h.Create)
		animes.PUT("/:id", ingest.Persist("cover"), h.Update)
		animes.DELETE("/:id", h.Delete)
		animes.POST("/:id/images", ingest.Persist("screenshots"), h.AddImages)
		animes.POST("/:id/episodes", h.AddEpisode)
	}
}

// Create godoc
// @Summary Create an anime
// @Description Multipart form with title/synopsis/genre/year fields and an optional "cover" file.
// @Tags Catalog
// @Accept multipart/form-data
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,403,500 {object} map[string]interface{}
// @Router /animes [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateAnimeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request fields")
		return
	}

	coverURL, coverID := savedCover(c)
	anime, err := h.service.CreateAnime(c.Request.Context(), req, coverURL, coverID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create anime")
		return
	}

	response.Success(c, http.StatusCreated, anime)
}

// GetByID godoc
// @Summary Get an anime
// @Tags Catalog
// @Success 200 {object} map[string]interface{}
// @Failure 400,404,500 {object} map[string]interface{}
// @Router /animes/{id} [GET]
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}

	anime, err := h.service.GetAnime(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, anime)
}

// List godoc
// @Summary List animes
// @Tags Catalog
// @Success 200 {object} map[string]interface{}
// @Router /animes [GET]
func (h *Handler) List(c *gin.Context) {
	animes, err := h.service.ListAnimes(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list animes")
		return
	}
	response.Success(c, http.StatusOK, animes)
}

// Update godoc
// @Summary Update an anime
// @Description Patches the given fields; a new "cover" file replaces the previous one and deletes its blob.
// @Tags Catalog
// @Accept multipart/form-data
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,403,404,500 {object} map[string]interface{}
// @Router /animes/{id} [PUT]
func (h *Handler) Update(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}

	var req UpdateAnimeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request fields")
		return
	}

	coverURL, coverID := savedCover(c)
	anime, err := h.service.UpdateAnime(c.Request.Context(), id, req, coverURL, coverID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, anime)
}

// Delete godoc
// @Summary Delete an anime and its images
// @Tags Catalog
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,403,404,500 {object} map[string]interface{}
// @Router /animes/{id} [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAnime(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AddImages godoc
// @Summary Add screenshots to an anime
// @Description Multipart upload with one or more files under field "screenshots".
// @Tags Catalog
// @Accept multipart/form-data
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,403,404,500 {object} map[string]interface{}
// @Router /animes/{id}/images [POST]
func (h *Handler) AddImages(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}

	// one file shows up as a single record, several as a list
	var imageIDs []int64
	var urls []string
	if recs, ok := imagestore.SavedRecords(c); ok {
		saved, _ := imagestore.SavedURLs(c)
		for i, rec := range recs {
			imageIDs = append(imageIDs, rec.ID)
			urls = append(urls, saved[i])
		}
	} else if rec, ok := imagestore.SavedRecord(c); ok {
		url, _ := imagestore.SavedURL(c)
		imageIDs = append(imageIDs, rec.ID)
		urls = append(urls, url)
	}

	if len(imageIDs) == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No images provided")
		return
	}

	images, err := h.service.AddImages(c.Request.Context(), id, imageIDs, urls)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, images)
}

// ListImages godoc
// @Summary List an anime's screenshots
// @Tags Catalog
// @Success 200 {object} map[string]interface{}
// @Failure 400,404,500 {object} map[string]interface{}
// @Router /animes/{id}/images [GET]
func (h *Handler) ListImages(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}

	images, err := h.service.ListImages(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, images)
}

// AddEpisode godoc
// @Summary Add an episode
// @Tags Catalog
// @Security BearerAuth
// @Param request body CreateEpisodeRequest true "number, title, video_url"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,403,404,500 {object} map[string]interface{}
// @Router /animes/{id}/episodes [POST]
func (h *Handler) AddEpisode(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}

	var req CreateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ep, err := h.service.AddEpisode(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ep)
}

// ListEpisodes godoc
// @Summary List an anime's episodes
// @Tags Catalog
// @Success 200 {object} map[string]interface{}
// @Failure 400,404,500 {object} map[string]interface{}
// @Router /animes/{id}/episodes [GET]
func (h *Handler) ListEpisodes(c *gin.Context) {
	id, ok := animeID(c)
	if !ok {
		return
	}

	eps, err := h.service.ListEpisodes(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, eps)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, ErrAnimeNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Anime not found")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
}

func animeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid anime ID")
		return 0, false
	}
	return id, true
}

func savedCover(c *gin.Context) (string, *int64) {
	rec, ok := imagestore.SavedRecord(c)
	if !ok {
		return "", nil
	}
	url, _ := imagestore.SavedURL(c)
	id := rec.ID
	return url, &id
}
