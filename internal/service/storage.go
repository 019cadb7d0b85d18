package service

import (
	"context"
	"fmt"
	"time"

	appconfig "github.com/firmdata/dataroom/internal/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignTTL bounds how long a generated upload URL stays valid.
const PresignTTL = 15 * time.Minute

// PresignedUpload is a one-shot upload destination: the storage key the
// file will live under and the signed PUT URL that writes it.
type PresignedUpload struct {
	StoragePath string `json:"storage_path"`
	UploadURL   string `json:"upload_url"`
	ExpiresIn   int    `json:"expires_in_seconds"`
}

// StorageService issues presigned S3 PUT URLs for pending file uploads.
// The endpoint is S3-compatible, so MinIO works in development.
type StorageService struct {
	cfg *appconfig.Config
}

func NewStorageService(cfg *appconfig.Config) *StorageService {
	return &StorageService{cfg: cfg}
}

// storageKey namespaces object keys by firm and dataset so listing a
// prefix yields exactly one dataset's files.
func storageKey(firmID, datasetID, filename string) string {
	return fmt.Sprintf("firms/%s/datasets/%s/%s/%s", firmID, datasetID, uuid.New(), filename)
}

func (s *StorageService) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.cfg.Storage.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.Storage.AccessKey,
			s.cfg.Storage.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.Storage.Endpoint)
		o.UsePathStyle = true
	})

	return s3.NewPresignClient(client), nil
}

// PresignUpload generates a storage key and a signed PUT URL for it.
func (s *StorageService) PresignUpload(ctx context.Context, firmID, datasetID, filename string) (*PresignedUpload, error) {
	presignClient, err := s.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.cfg.Storage.Bucket
	key := storageKey(firmID, datasetID, filename)

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignedUpload{
		StoragePath: key,
		UploadURL:   req.URL,
		ExpiresIn:   int(PresignTTL.Seconds()),
	}, nil
}
