package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// ReportTaskService is the deferred unit invoked by the task queue after a
// stream is finalized. It aggregates the stream's sales, renders the
// spreadsheet artifact, and emails the seller a summary with the download
// link.
//
// The queue redelivers on failure, so Run never propagates errors: every
// failure is caught and logged, and a partially successful run (e.g. the
// renderer broke, so the link is absent) still best-effort notifies. Run has
// no side effect that is unsafe to repeat — it never mutates the stream
// entity; a duplicate email is the accepted at-least-once tradeoff.
type ReportTaskService struct {
	streams    domain.StreamReader
	aggregator *Aggregator
	renderer   *Renderer
	identity   domain.IdentityDirectory
	emails     domain.EmailSender
	logger     *slog.Logger
}

func NewReportTaskService(
	streams domain.StreamReader,
	aggregator *Aggregator,
	renderer *Renderer,
	identity domain.IdentityDirectory,
	emails domain.EmailSender,
	logger *slog.Logger,
) *ReportTaskService {
	return &ReportTaskService{
		streams:    streams,
		aggregator: aggregator,
		renderer:   renderer,
		identity:   identity,
		emails:     emails,
		logger:     logger.With("service_component", "ReportTaskService"),
	}
}

// Run executes the reporting pipeline for one stream.
func (s *ReportTaskService) Run(ctx context.Context, streamID uuid.UUID) {
	timer := prometheus.NewTimer(reportTaskDurationHist)
	defer timer.ObserveDuration()

	if err := s.run(ctx, streamID); err != nil {
		s.logger.ErrorContext(ctx, "Report task failed", "stream_id", streamID, "error", err)
		reportTasksCounter.WithLabelValues("error").Inc()
		return
	}
	reportTasksCounter.WithLabelValues("success").Inc()
}

func (s *ReportTaskService) run(ctx context.Context, streamID uuid.UUID) error {
	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		return err
	}

	aggregation, err := s.aggregator.Aggregate(ctx, streamID)
	if err != nil {
		return err
	}

	// Renderer failures degrade the report to "no link"; the email still
	// carries the computed totals.
	reportLink, err := s.renderer.RenderAndUpload(ctx, aggregation.Rows, stream.Title)
	if err != nil {
		s.logger.WarnContext(ctx, "Report artifact unavailable, sending email without link",
			"stream_id", streamID, "error", err)
		renderFailuresCounter.Inc()
		reportLink = ""
	}

	sellerEmail, err := s.identity.ResolveEmail(ctx, stream.UserID)
	if err != nil {
		return err
	}

	summary := domain.ReportSummary{
		Title:         stream.Title,
		ProductsSold:  aggregation.OrdersSeen,
		TotalAmount:   aggregation.TotalAmount,
		TotalViews:    stream.TotalViews,
		UniqueViewers: stream.UniqueViewers,
	}

	if err := s.emails.SendOrdersReport(ctx, sellerEmail, summary, reportLink); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Orders report email sent",
		"stream_id", streamID, "to", sellerEmail, "products_sold", summary.ProductsSold, "has_link", reportLink != "")
	return nil
}
