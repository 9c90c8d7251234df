// Package service implements the owner's resource library.
package service

import (
	"context"
	"strings"

	"magnetlab_backend/internal/adapters/storage"
	"magnetlab_backend/internal/library/repository"
	"magnetlab_backend/internal/library/transport"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgUploadsDisabled = "file uploads are not configured"
	msgURLRequired     = "url is required for link resources"
	msgFileKeyRequired = "fileKey is required for file resources"
	msgFileKeyForeign  = "fileKey does not belong to this account"
)

// ObjectStore is the slice of object storage the library needs.
type ObjectStore interface {
	GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*storage.PresignedURL, error)
	DeleteObject(ctx context.Context, bucket, fileKey string) error
}

type Service struct {
	repo   repository.ResourceRepository
	store  ObjectStore
	bucket string
	log    *logger.Logger
}

// New creates the library service. store may be nil, in which case link
// resources keep working and uploads are refused.
func New(repo repository.ResourceRepository, store ObjectStore, bucket string, log *logger.Logger) *Service {
	return &Service{repo: repo, store: store, bucket: bucket, log: log}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) (*transport.ResourceListResponse, error) {
	resources, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]transport.ResourceResponse, 0, len(resources))
	for _, res := range resources {
		items = append(items, toResponse(res))
	}
	return &transport.ResourceListResponse{Items: items}, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateResourceRequest) (*transport.ResourceResponse, error) {
	res := repository.Resource{
		UserID:       userID,
		Title:        sanitize.Text(req.Title),
		Description:  sanitize.OptionalText(req.Description),
		ResourceType: req.ResourceType,
	}

	switch req.ResourceType {
	case repository.TypeLink:
		if req.URL == nil || strings.TrimSpace(*req.URL) == "" {
			return nil, apperr.Validation(msgURLRequired)
		}
		url := strings.TrimSpace(*req.URL)
		res.URL = &url
	case repository.TypeFile:
		if req.FileKey == nil || strings.TrimSpace(*req.FileKey) == "" {
			return nil, apperr.Validation(msgFileKeyRequired)
		}
		key := strings.TrimSpace(*req.FileKey)
		if !strings.HasPrefix(key, ownerFolder(userID)+"/") {
			return nil, apperr.Forbidden(msgFileKeyForeign)
		}
		res.FileKey = &key
	}

	created, err := s.repo.Create(ctx, res)
	if err != nil {
		return nil, err
	}
	resp := toResponse(created)
	return &resp, nil
}

// Delete removes the resource row; for file resources the stored object is
// removed too. A failing object delete is logged and does not fail the call.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	if res.FileKey != nil && s.store != nil {
		if err := s.store.DeleteObject(ctx, s.bucket, *res.FileKey); err != nil {
			s.log.Warn("failed to delete resource object", "resourceId", id, "fileKey", *res.FileKey, "error", err)
		}
	}
	return nil
}

// UploadURL presigns a PUT for a new file in the owner's folder.
func (s *Service) UploadURL(ctx context.Context, userID uuid.UUID, req transport.UploadURLRequest) (*transport.UploadURLResponse, error) {
	if s.store == nil {
		return nil, apperr.BadRequest(msgUploadsDisabled)
	}
	presigned, err := s.store.GenerateUploadURL(ctx, s.bucket, ownerFolder(userID), req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return nil, err
	}
	return &transport.UploadURLResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// TrackClick counts a visitor click. Errors are logged and swallowed.
func (s *Service) TrackClick(ctx context.Context, id uuid.UUID) {
	if err := s.repo.IncrementClicks(ctx, id); err != nil {
		s.log.Warn("failed to track resource click", "resourceId", id, "error", err)
	}
}

func ownerFolder(userID uuid.UUID) string {
	return userID.String()
}

func toResponse(res repository.Resource) transport.ResourceResponse {
	return transport.ResourceResponse{
		ID:           res.ID,
		Title:        res.Title,
		Description:  res.Description,
		ResourceType: res.ResourceType,
		URL:          res.URL,
		FileKey:      res.FileKey,
		ClickCount:   res.ClickCount,
		CreatedAt:    res.CreatedAt,
	}
}
