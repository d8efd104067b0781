package app

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlive/golang_services/internal/report_service/adapters/storage"
	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

func sampleRows() []domain.ReportRow {
	return []domain.ReportRow{
		{
			OrderID:      uuid.New(),
			ProductName:  "Velvet Hoodie",
			ProductSKU:   "VH-01",
			BuyerAddress: "1 Mock Street Not Specified , Mocktown , MK , US - 00001",
			BuyerPhone:   "+10000000000",
			Username:     "alice",
			DisplayName:  "Alice",
		},
	}
}

func assertScratchDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory should hold no leftover files")
}

func TestRenderer_RenderAndUpload_Success(t *testing.T) {
	exportPath := t.TempDir()
	store := storage.NewMockArtifactStore(discardLogger(), false)
	renderer := NewRenderer(store, discardLogger(), exportPath)

	link, err := renderer.RenderAndUpload(context.Background(), sampleRows(), "Friday Drop")
	require.NoError(t, err)
	assert.NotEmpty(t, link)

	require.Len(t, store.UploadedObjects, 1)
	object := store.UploadedObjects[0]
	assert.Contains(t, object, "livestream-excel-sheets/Friday_Drop_")
	assert.Contains(t, object, "_records.xlsx")

	assertScratchDirEmpty(t, exportPath)
}

func TestRenderer_RenderAndUpload_EmptyRowsStillProducesArtifact(t *testing.T) {
	exportPath := t.TempDir()
	store := storage.NewMockArtifactStore(discardLogger(), false)
	renderer := NewRenderer(store, discardLogger(), exportPath)

	link, err := renderer.RenderAndUpload(context.Background(), nil, "Quiet Stream")
	require.NoError(t, err)
	assert.NotEmpty(t, link)
	assert.Len(t, store.UploadedObjects, 1)
}

func TestRenderer_RenderAndUpload_UploadFailure(t *testing.T) {
	exportPath := t.TempDir()
	store := storage.NewMockArtifactStore(discardLogger(), true)
	renderer := NewRenderer(store, discardLogger(), exportPath)

	link, err := renderer.RenderAndUpload(context.Background(), sampleRows(), "Friday Drop")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadFile)
	assert.Empty(t, link)

	// The intermediate file is cleaned up even when the upload failed.
	assertScratchDirEmpty(t, exportPath)
}

func TestRenderer_SanitizeTitle(t *testing.T) {
	assert.Equal(t, "Friday_Drop", sanitizeTitle("Friday Drop"))
	assert.Equal(t, "a-b", sanitizeTitle("a/b"))
	assert.Equal(t, "untitled", sanitizeTitle("   "))
}
