package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jwalitptl/telehealth-api/internal/config"
	"github.com/jwalitptl/telehealth-api/internal/model"
)

const presignExpiry = 5 * time.Minute

// Service hands out short-lived presigned upload URLs. Files never pass
// through the API process.
type Service struct {
	client *minio.Client
	bucket string
}

func NewService(cfg config.StorageConfig) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Service{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// GenerateUploadURL returns a presigned PUT URL for a patient image.
func (s *Service) GenerateUploadURL(ctx context.Context, req *model.UploadURLRequest) (*model.UploadURLResponse, error) {
	key := fmt.Sprintf("patients/%s/images/%s-%s", req.PatientID, uuid.New(), req.Filename)

	url, err := s.client.PresignedPutObject(ctx, s.bucket, key, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload URL: %w", err)
	}

	return &model.UploadURLResponse{
		UploadURL: url.String(),
		Key:       key,
	}, nil
}
