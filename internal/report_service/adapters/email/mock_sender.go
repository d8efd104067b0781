package email

import (
	"context"
	"errors"
	"log/slog"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// SentReportEmail records one delivery attempt made through the mock sender.
type SentReportEmail struct {
	To         string
	Summary    domain.ReportSummary
	ReportLink string
}

// MockEmailSender records sent report emails for assertions.
type MockEmailSender struct {
	logger              *slog.Logger
	SimulateSendFailure bool
	Sent                []SentReportEmail
}

func NewMockEmailSender(logger *slog.Logger, sendFail bool) *MockEmailSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockEmailSender{
		logger:              logger.With("adapter", "mock_email_sender"),
		SimulateSendFailure: sendFail,
	}
}

var _ domain.EmailSender = (*MockEmailSender)(nil)

func (m *MockEmailSender) SendOrdersReport(ctx context.Context, to string, summary domain.ReportSummary, reportLink string) error {
	m.logger.InfoContext(ctx, "MockEmailSender: SendOrdersReport called", "to", to, "report_link", reportLink)
	if m.SimulateSendFailure {
		return errors.New("mock email sender simulated send failure")
	}
	m.Sent = append(m.Sent, SentReportEmail{To: to, Summary: summary, ReportLink: reportLink})
	return nil
}
