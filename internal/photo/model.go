package photo

import (
	"net/http"
	"time"

	"github.com/residesk/amenity-booking-backend/internal/pkg/apperror"
)

// Photo is an image attached to a bookable resource.
type Photo struct {
	ID            string    `json:"id"`
	ResourceID    string    `json:"resource_id"`
	UploaderID    string    `json:"uploader_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"`
	ThumbnailPath *string   `json:"-"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// URL returns the public path for the full-size image.
func URL(id string) string {
	return "/photos/" + id
}

// ThumbnailURL returns the public path for the thumbnail.
func ThumbnailURL(id string) string {
	return "/photos/" + id + "/thumbnail"
}

// Service errors carry their HTTP status so handlers can hand them
// straight to response.Error.
var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "photo not found")
	ErrNotImage    = apperror.New(http.StatusBadRequest, "file is not an image")
	ErrTooLarge    = apperror.New(http.StatusBadRequest, "file exceeds the size limit")
	ErrNoThumbnail = apperror.New(http.StatusNotFound, "thumbnail not available")
)
