package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tucancha/court-booking/internal/observability"
)

// Buckets, one per image kind the app serves.
const (
	VenueImages = "venue-images"
	CourtImages = "court-images"
	CourtPhotos = "court-photos"
)

// ImageStore uploads venue and court pictures to object storage and hands
// back the public URL the clients embed.
type ImageStore struct {
	client        *minio.Client
	publicBaseURL string
	uploadTimeout time.Duration
	logger        observability.Logger
}

func NewImageStore(endpoint, accessKey, secretKey string, useSSL bool, publicBaseURL string, uploadTimeout time.Duration, logger observability.Logger) (*ImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &ImageStore{
		client:        client,
		publicBaseURL: publicBaseURL,
		uploadTimeout: uploadTimeout,
		logger:        logger,
	}, nil
}

func (s *ImageStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{VenueImages, CourtImages, CourtPhotos} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// Upload stores the image under a fresh random name and returns its public
// URL. The whole transfer runs under the configured timeout so a stalled
// storage backend cannot hang a form submit.
func (s *ImageStore) Upload(ctx context.Context, bucket string, r io.Reader, size int64, contentType, ext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	objectName := uuid.New().String() + ext
	start := time.Now()
	_, err := s.client.PutObject(ctx, bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	observability.ImageUploadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.WithError(err).WithField("bucket", bucket).Error("image upload failed")
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, objectName), nil
}
