package profile

import (
	"context"
	"net/http"

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

// RegisterRoutes wires the avatar and cover routes; ingest persists the
// uploaded image before the handlers run.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, ingest *imagestore.Ingestor) {
	me := protected.Group("/users/me")
	{
		me.PUT("/avatar",
			ingest.PersistWith(imagestore.PersistOptions{MaxFileSize: imagestore.AvatarMaxFileSize}, "avatar"),
			h.UpdateAvatar)
		me.PUT("/cover", ingest.Persist("cover"), h.UpdateCover)
	}
}

// UpdateAvatar godoc
// @Summary Replace the current user's avatar
// @Description Multipart upload under field "avatar". The previous avatar blob is deleted.
// @Tags Profile
// @Accept multipart/form-data
// @Security BearerAuth
// @Param avatar formData file true "Avatar image (jpeg/png/webp/gif, max 5 MB)"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /users/me/avatar [PUT]
func (h *Handler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, h.service.UpdateAvatar)
}

// UpdateCover godoc
// @Summary Replace the current user's profile cover
// @Tags Profile
// @Accept multipart/form-data
// @Security BearerAuth
// @Param cover formData file true "Cover image (jpeg/png/webp/gif, max 15 MB)"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /users/me/cover [PUT]
func (h *Handler) UpdateCover(c *gin.Context) {
	h.updateImage(c, h.service.UpdateCover)
}

func (h *Handler) updateImage(c *gin.Context, apply func(ctx context.Context, userID int64, url string, imageID int64) error) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	url, ok := imagestore.SavedURL(c)
	rec, okRec := imagestore.SavedRecord(c)
	if !ok || !okRec {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No image provided")
		return
	}

	if err := apply(c.Request.Context(), userID, url, rec.ID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update image")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}
