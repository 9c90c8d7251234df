package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// QRCode renders the public URL of a published page as a PNG.
func (s *Service) QRCode(ctx context.Context, userID, id uuid.UUID, size int) ([]byte, error) {
	page, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.publishedURL(ctx, page)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(url, qrcode.Medium, clampQRSize(size))
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

func clampQRSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size < minQRSize:
		return minQRSize
	case size > maxQRSize:
		return maxQRSize
	}
	return size
}
