package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// RESTIdentityDirectoryAdapter resolves account contact emails from the
// identity service's REST API.
type RESTIdentityDirectoryAdapter struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewRESTIdentityDirectoryAdapter(logger *slog.Logger, baseURL, apiKey string, httpClient *http.Client) *RESTIdentityDirectoryAdapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTIdentityDirectoryAdapter{
		logger:     logger.With("adapter", "rest_identity_directory"),
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

var _ domain.IdentityDirectory = (*RESTIdentityDirectoryAdapter)(nil)

type accountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (a *RESTIdentityDirectoryAdapter) ResolveEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s", a.baseURL, userID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create identity directory request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to reach identity directory: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return "", domain.ErrNotFound
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		a.logger.WarnContext(ctx, "Identity directory lookup failed", "user_id", userID, "status_code", httpResp.StatusCode)
		return "", fmt.Errorf("identity directory error: status %d, body: %s", httpResp.StatusCode, string(body))
	}

	var account accountResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&account); err != nil {
		return "", fmt.Errorf("failed to parse identity directory response: %w", err)
	}
	if account.Email == "" {
		return "", fmt.Errorf("identity directory returned no email for user %s", userID)
	}
	return account.Email, nil
}
