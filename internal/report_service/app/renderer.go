package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

const (
	reportSheetName   = "orders"
	reportFileName    = "records.xlsx"
	reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	reportObjectDir   = "livestream-excel-sheets"
)

// Renderer serializes report rows into a spreadsheet artifact, hands it to
// the artifact store, and removes the local intermediate copy.
type Renderer struct {
	store      domain.ArtifactStore
	logger     *slog.Logger
	exportPath string // local scratch directory for intermediate files
}

func NewRenderer(store domain.ArtifactStore, logger *slog.Logger, exportPath string) *Renderer {
	if exportPath == "" {
		exportPath = "/tmp/velvet_reports"
		logger.Warn("Report export path not configured, using default", "path", exportPath)
	}
	return &Renderer{
		store:      store,
		logger:     logger.With("service_component", "Renderer"),
		exportPath: exportPath,
	}
}

// RenderAndUpload produces the spreadsheet and returns its token-gated
// download link. On any stage failure it returns an empty link and an error
// wrapping the stage's distinct kind (store/upload/delete) so operators can
// localize the break.
func (r *Renderer) RenderAndUpload(ctx context.Context, rows []domain.ReportRow, title string) (string, error) {
	localPath, err := r.storeFile(rows)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStoreFile, err)
	}

	token := uuid.NewString()
	objectName := fmt.Sprintf("%s/%s_%s_%s", reportObjectDir, sanitizeTitle(title), token, reportFileName)

	link, err := r.store.Upload(ctx, localPath, objectName, reportContentType, token)
	if err != nil {
		// Leave no scratch file behind even when the upload failed.
		_ = os.Remove(localPath)
		return "", fmt.Errorf("%w: %w", domain.ErrUploadFile, err)
	}

	if err := os.Remove(localPath); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDeleteFile, err)
	}

	r.logger.InfoContext(ctx, "Report rendered and uploaded", "object", objectName, "rows", len(rows))
	return link, nil
}

func (r *Renderer) storeFile(rows []domain.ReportRow) (string, error) {
	if err := os.MkdirAll(r.exportPath, 0750); err != nil {
		return "", fmt.Errorf("could not create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheetName); err != nil {
		return "", fmt.Errorf("failed to name report sheet: %w", err)
	}

	headers := []string{
		"Order ID", "Product Name", "Product SKU",
		"Buyer's Address", "Buyer's Phone Number", "Username", "Displayname",
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(reportSheetName, cell, header); err != nil {
			return "", fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i, row := range rows {
		values := []string{
			row.OrderID.String(), row.ProductName, row.ProductSKU,
			row.BuyerAddress, row.BuyerPhone, row.Username, row.DisplayName,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return "", fmt.Errorf("failed to compute data cell: %w", err)
			}
			if err := f.SetCellValue(reportSheetName, cell, value); err != nil {
				return "", fmt.Errorf("failed to write data cell: %w", err)
			}
		}
	}

	localPath := filepath.Join(r.exportPath, fmt.Sprintf("%s_%s", uuid.NewString(), reportFileName))
	if err := f.SaveAs(localPath); err != nil {
		return "", fmt.Errorf("failed to save report workbook: %w", err)
	}
	return localPath, nil
}

// sanitizeTitle keeps the storage path readable when titles carry slashes or
// whitespace.
func sanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.ReplaceAll(title, "/", "-")
	title = strings.ReplaceAll(title, " ", "_")
	if title == "" {
		return "untitled"
	}
	return title
}
