package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"quotabill/internal/common"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// LogoBucket holds every uploaded company logo, keyed per user.
const LogoBucket = "company-logos"

const maxLogoSize = 2 << 20 // 2 MiB

var allowedLogoTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/svg+xml": true,
}

type LogoService interface {
	// Upload stores a logo and returns the object key to persist on the
	// company profile.
	Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error)
	PresignedURL(objectName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectName string) error
	EnsureBucketExists(ctx context.Context) error
}

type logoService struct {
	client *minio.Client
}

func NewLogoService(endpoint, accessKey, secretKey string, useSSL bool) (LogoService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &logoService{client: client}, nil
}

func (s *logoService) Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if !allowedLogoTypes[contentType] {
		return "", fmt.Errorf("%w: unsupported logo type %s", common.ErrValidation, contentType)
	}
	if size <= 0 || size > maxLogoSize {
		return "", fmt.Errorf("%w: logo must be between 1 byte and %d bytes", common.ErrValidation, maxLogoSize)
	}

	objectName := fmt.Sprintf("%s/%s%s", userID.String(), uuid.New().String(), path.Ext(filename))
	_, err := s.client.PutObject(ctx, LogoBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (s *logoService) PresignedURL(objectName string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(context.Background(), LogoBucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (s *logoService) Delete(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, LogoBucket, objectName, minio.RemoveObjectOptions{})
}

func (s *logoService) EnsureBucketExists(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, LogoBucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, LogoBucket, minio.MakeBucketOptions{})
	}
	return nil
}
