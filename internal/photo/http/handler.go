package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/residesk/amenity-booking-backend/internal/auth"
	"github.com/residesk/amenity-booking-backend/internal/photo"
	"github.com/residesk/amenity-booking-backend/internal/pkg/response"
)

type Handler struct {
	service photo.Service
}

func NewHandler(service photo.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Upload(c *gin.Context) {
	resourceID := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	p, err := h.service.Upload(c.Request.Context(), photo.UploadInput{
		FileHeader: fileHeader,
		ResourceID: resourceID,
		UploaderID: auth.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	var thumbURL *string
	if p.ThumbnailPath != nil {
		t := photo.ThumbnailURL(p.ID)
		thumbURL = &t
	}
	c.JSON(http.StatusCreated, UploadResponse{
		Message:      "photo uploaded successfully",
		PhotoID:      p.ID,
		URL:          photo.URL(p.ID),
		ThumbnailURL: thumbURL,
	})
}

func (h *Handler) ListByResource(c *gin.Context) {
	resourceID := c.Param("id")

	photos, err := h.service.ListByResource(c.Request.Context(), resourceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ListItem, 0, len(photos))
	for _, p := range photos {
		var thumbURL *string
		if p.ThumbnailPath != nil {
			t := photo.ThumbnailURL(p.ID)
			thumbURL = &t
		}
		items = append(items, ListItem{
			ID:           p.ID,
			Filename:     p.Filename,
			ContentType:  p.ContentType,
			Size:         p.Size,
			URL:          photo.URL(p.ID),
			ThumbnailURL: thumbURL,
		})
	}
	c.JSON(http.StatusOK, gin.H{"photos": items})
}

// Serve streams the full-size image.
func (h *Handler) Serve(c *gin.Context) {
	stream, p, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", p.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+p.Filename+"\"")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started, nothing useful to send.
		return
	}
}

// ServeThumbnail streams the thumbnail (always JPEG).
func (h *Handler) ServeThumbnail(c *gin.Context) {
	stream, p, err := h.service.DownloadThumbnail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+p.Filename+"_thumb.jpg\"")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		return
	}
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
