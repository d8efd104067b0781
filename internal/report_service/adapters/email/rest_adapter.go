package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// SenderConfig holds the transactional email provider settings.
type SenderConfig struct {
	BaseURL          string
	APIKey           string
	FromName         string
	FromAddress      string
	ReportTemplateID string
}

// RESTEmailSender sends templated transactional emails through the provider's
// REST API.
type RESTEmailSender struct {
	logger     *slog.Logger
	httpClient *http.Client
	cfg        SenderConfig
}

func NewRESTEmailSender(logger *slog.Logger, cfg SenderConfig, httpClient *http.Client) *RESTEmailSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTEmailSender{
		logger:     logger.With("adapter", "rest_email_sender"),
		httpClient: httpClient,
		cfg:        cfg,
	}
}

var _ domain.EmailSender = (*RESTEmailSender)(nil)

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// reportTemplateData is the structured template payload; the template renders
// the summary metrics and the artifact link.
type reportTemplateData struct {
	Title         string  `json:"title"`
	ProductsSold  int     `json:"productsSold"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalViews    int64   `json:"totalViews"`
	UniqueViewers int64   `json:"uniqueViewers"`
	ReportLink    string  `json:"reportLink,omitempty"`
}

type sendMailRequest struct {
	To                  emailAddress       `json:"to"`
	From                emailAddress       `json:"from"`
	Subject             string             `json:"subject"`
	TemplateID          string             `json:"template_id"`
	DynamicTemplateData reportTemplateData `json:"dynamic_template_data"`
}

func (s *RESTEmailSender) SendOrdersReport(ctx context.Context, to string, summary domain.ReportSummary, reportLink string) error {
	req := sendMailRequest{
		To:         emailAddress{Email: to},
		From:       emailAddress{Name: s.cfg.FromName, Email: s.cfg.FromAddress},
		Subject:    fmt.Sprintf("Orders Report %s", summary.Title),
		TemplateID: s.cfg.ReportTemplateID,
		DynamicTemplateData: reportTemplateData{
			Title:         summary.Title,
			ProductsSold:  summary.ProductsSold,
			TotalAmount:   summary.TotalAmount,
			TotalViews:    summary.TotalViews,
			UniqueViewers: summary.UniqueViewers,
			ReportLink:    reportLink,
		},
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal send-mail request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v3/mail/send", bytes.NewBuffer(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create send-mail request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach email provider: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		s.logger.WarnContext(ctx, "Email provider rejected send", "status_code", httpResp.StatusCode, "to", to)
		return fmt.Errorf("email provider error: status %d, body: %s", httpResp.StatusCode, string(body))
	}

	s.logger.InfoContext(ctx, "Orders report email accepted by provider", "to", to, "template_id", s.cfg.ReportTemplateID)
	return nil
}
