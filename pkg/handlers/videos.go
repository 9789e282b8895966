package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"video-portfolio/pkg/catalog"
	"video-portfolio/pkg/models"
)

func (h *Handler) PublicVideos(c *gin.Context) {
	videos, err := h.Catalog.Public(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "loading videos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "videos": videos})
}

func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.Catalog.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "loading videos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "videos": videos})
}

func (h *Handler) CreateVideo(c *gin.Context) {
	var in catalog.NewVideo
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	video, err := h.Catalog.Add(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err, "adding the video")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Video added.", "video": video})
}

func (h *Handler) UpdateVideo(c *gin.Context) {
	var patch models.VideoPatch
	// no body at all is the same as {}
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	video, err := h.Catalog.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err, "updating the video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Video updated.", "video": video})
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	if err := h.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "deleting the video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Video deleted."})
}

type reorderRequest struct {
	VideoIDs *[]string `json:"videoIds"`
}

// ReorderVideos reports how many rows changed. A count below len(videoIds) means some ids
// matched nothing; the client is expected to reload the list either way.
func (h *Handler) ReorderVideos(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoIDs == nil {
		fail(c, http.StatusBadRequest, "A videoIds array is required.")
		return
	}

	res, err := h.Catalog.Reorder(c.Request.Context(), *req.VideoIDs)
	if err != nil {
		h.respondError(c, err, "reordering videos")
		return
	}
	if len(res.Failures) > 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Some videos could not be reordered.",
			"details": res.Messages(),
			"updated": res.Updated,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Video order updated.", "updated": res.Updated})
}
