package imagestore

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the retrieval routes at the engine root so stored
// locators (`/db-image/id/42`) resolve as-is.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	images := r.Group(URLPrefix)
	{
		images.GET("/id/:id", h.GetByID)
		images.GET("/file/:filename", h.GetByFilename)
	}
}
