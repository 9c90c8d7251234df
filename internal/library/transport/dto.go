package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateResourceRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ResourceType string  `json:"resourceType" validate:"required,oneof=link file"`
	URL          *string `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	FileKey      *string `json:"fileKey,omitempty" validate:"omitempty,max=512"`
}

type UploadURLRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=255"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ResourceResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	ResourceType string    `json:"resourceType"`
	URL          *string   `json:"url,omitempty"`
	FileKey      *string   `json:"fileKey,omitempty"`
	ClickCount   int64     `json:"clickCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ResourceListResponse struct {
	Items []ResourceResponse `json:"items"`
}
