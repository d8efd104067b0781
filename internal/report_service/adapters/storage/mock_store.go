package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// MockArtifactStore records uploads for assertions.
type MockArtifactStore struct {
	logger                *slog.Logger
	SimulateUploadFailure bool
	UploadedObjects       []string
}

func NewMockArtifactStore(logger *slog.Logger, uploadFail bool) *MockArtifactStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockArtifactStore{
		logger:                logger.With("adapter", "mock_artifact_store"),
		SimulateUploadFailure: uploadFail,
	}
}

var _ domain.ArtifactStore = (*MockArtifactStore)(nil)

func (m *MockArtifactStore) Upload(ctx context.Context, localPath, objectName, contentType, token string) (string, error) {
	m.logger.InfoContext(ctx, "MockArtifactStore: Upload called", "object", objectName)
	if m.SimulateUploadFailure {
		return "", errors.New("mock artifact store simulated upload failure")
	}
	m.UploadedObjects = append(m.UploadedObjects, objectName)
	return fmt.Sprintf("https://storage.example.com/reports/%s?token=%s", objectName, token), nil
}
