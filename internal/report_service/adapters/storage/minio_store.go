package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// MinioConfig holds object-store connection settings.
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string // base URL used to build public download links
}

// MinioArtifactStore uploads rendered report artifacts to S3-compatible
// object storage and returns public, token-gated download links. The token is
// attached as object metadata so the download edge can validate it.
type MinioArtifactStore struct {
	client *minio.Client
	logger *slog.Logger
	cfg    MinioConfig
}

func NewMinioArtifactStore(cfg MinioConfig, logger *slog.Logger) (*MinioArtifactStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage client: %w", err)
	}
	return &MinioArtifactStore{
		client: client,
		logger: logger.With("adapter", "minio_artifact_store"),
		cfg:    cfg,
	}, nil
}

var _ domain.ArtifactStore = (*MinioArtifactStore)(nil)

// EnsureBucket creates the reports bucket if it does not exist yet.
func (s *MinioArtifactStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.cfg.Bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.cfg.Bucket, err)
		}
		s.logger.Info("Created reports bucket", "bucket", s.cfg.Bucket)
	}
	return nil
}

// Upload stores the local file under objectName and returns the token-gated
// download link.
func (s *MinioArtifactStore) Upload(ctx context.Context, localPath, objectName, contentType, token string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.cfg.Bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"download-token": token},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}

	link := fmt.Sprintf("%s/%s/%s?alt=media&token=%s",
		s.cfg.PublicBaseURL, s.cfg.Bucket, url.PathEscape(objectName), url.QueryEscape(token))

	s.logger.InfoContext(ctx, "Report artifact uploaded", "bucket", s.cfg.Bucket, "object", objectName)
	return link, nil
}
