package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/residesk/amenity-booking-backend/internal/pkg/apperror"
	"github.com/residesk/amenity-booking-backend/internal/pkg/storage"
	"github.com/residesk/amenity-booking-backend/internal/resource"
)

// maxUploadBytes caps amenity photos at 10 MiB.
const maxUploadBytes = 10 << 20

type UploadInput struct {
	FileHeader *multipart.FileHeader
	ResourceID string
	UploaderID string
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Photo, error)
	ListByResource(ctx context.Context, resourceID string) ([]*Photo, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	catalog resource.Service
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, catalog resource.Service, store storage.Storage) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Photo, error) {
	if in.FileHeader.Size > maxUploadBytes {
		return nil, ErrTooLarge
	}

	// The resource must exist before anything hits storage.
	if _, err := s.catalog.GetByID(ctx, in.ResourceID); err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, apperror.Wrap(err, http.StatusNotFound, "resource not found")
		}
		return nil, err
	}

	contentType := in.FileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	src, err := in.FileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffer the content for multiple reads (saving and thumbnailing).
	// Uploads are capped well below anything that would hurt here.
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	photoID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(in.FileHeader.Filename))

	// Sharding path: photos/ab/UUID.ext
	shard := photoID[:2]
	storagePath := fmt.Sprintf("photos/%s/%s%s", shard, photoID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("failed to save photo to storage: %w", err)
	}

	var thumbnailPath *string
	thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200)
	if err == nil {
		tPath := fmt.Sprintf("photos/%s/%s_thumb.jpg", shard, photoID)
		if err := s.storage.Save(ctx, tPath, thumbReader); err == nil {
			thumbnailPath = &tPath
		}
	}

	p := &Photo{
		ID:            photoID,
		ResourceID:    in.ResourceID,
		UploaderID:    in.UploaderID,
		Filename:      in.FileHeader.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          in.FileHeader.Size,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		// Cleanup storage if the db write fails.
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return p, nil
}

func (s *service) ListByResource(ctx context.Context, resourceID string) ([]*Photo, error) {
	return s.repo.ListByResource(ctx, resourceID)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, p.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve photo from storage: %w", err)
	}
	return stream, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *p.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}
	return stream, p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Best-effort storage cleanup; the row is the source of truth.
	_ = s.storage.Delete(ctx, p.StoragePath)
	if p.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *p.ThumbnailPath)
	}

	return s.repo.Delete(ctx, id)
}
