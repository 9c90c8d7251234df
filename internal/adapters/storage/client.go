// Package storage issues presigned URLs against an S3-compatible object
// store. Clients upload and download directly; no file bytes pass through
// the API.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL bounds how long an issued URL stays valid.
const PresignedURLTTL = 15 * time.Minute

// PresignedURL is a time-limited URL for one object.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MinIOService struct {
	client      *minio.Client
	maxFileSize int64
	now         func() time.Time
}

func NewMinIOService(cfg config.StorageConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("object storage is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinIOService{client: client, maxFileSize: cfg.GetMinIOMaxFileSize(), now: time.Now}, nil
}

// EnsureBucketExists creates bucket on first start.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// GenerateUploadURL checks the announced type and size, then presigns a PUT
// under folder. Returned keys are unique even when fileName repeats.
func (s *MinIOService) GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if err := ValidateContentType(contentType); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.ValidateFileSize(sizeBytes); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	key := BuildFileKey(folder, fileName, uuid.New())
	signed, err := s.client.PresignedPutObject(ctx, bucket, key, PresignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload %s: %w", key, err)
	}
	return s.presigned(signed, key), nil
}

// GenerateDownloadURL presigns a GET for an existing object.
func (s *MinIOService) GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error) {
	signed, err := s.client.PresignedGetObject(ctx, bucket, fileKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("presign download %s: %w", fileKey, err)
	}
	return s.presigned(signed, fileKey), nil
}

func (s *MinIOService) DeleteObject(ctx context.Context, bucket, fileKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", fileKey, err)
	}
	return nil
}

func (s *MinIOService) presigned(u *url.URL, key string) *PresignedURL {
	return &PresignedURL{URL: u.String(), FileKey: key, ExpiresAt: s.now().Add(PresignedURLTTL)}
}

// BuildFileKey places fileName under folder with a short id suffix so two
// uploads of the same name never collide. Path separators in fileName are
// dropped.
func BuildFileKey(folder, fileName string, id uuid.UUID) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return path.Join(folder, fmt.Sprintf("%s_%s%s", stem, id.String()[:8], ext))
}
