package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// MockIdentityDirectory simulates the identity/auth lookup for tests.
type MockIdentityDirectory struct {
	logger                *slog.Logger
	SimulateLookupFailure bool
	Emails                map[uuid.UUID]string
}

func NewMockIdentityDirectory(logger *slog.Logger, lookupFail bool) *MockIdentityDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockIdentityDirectory{
		logger:                logger.With("adapter", "mock_identity_directory"),
		SimulateLookupFailure: lookupFail,
		Emails:                make(map[uuid.UUID]string),
	}
}

var _ domain.IdentityDirectory = (*MockIdentityDirectory)(nil)

func (m *MockIdentityDirectory) ResolveEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	m.logger.InfoContext(ctx, "MockIdentityDirectory: ResolveEmail called", "user_id", userID)
	if m.SimulateLookupFailure {
		return "", errors.New("mock identity directory simulated lookup failure")
	}
	if email, ok := m.Emails[userID]; ok {
		return email, nil
	}
	return "seller@example.com", nil
}
