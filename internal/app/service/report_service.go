package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/storage"
	"github.com/usav/inventory-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryReport is the result of a valuation export. ArchiveURL is
// set when an S3 archive is configured.
type InventoryReport struct {
	Filename    string    `json:"filename"`
	ItemCount   int       `json:"item_count"`
	TotalValue  float64   `json:"total_value"`
	ArchiveKey  string    `json:"archive_key,omitempty"`
	ArchiveURL  string    `json:"archive_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ReportService interface {
	// GenerateInventoryReport builds an XLSX valuation workbook over
	// the current stock and optionally archives it to S3.
	GenerateInventoryReport(ctx context.Context, variantID *uint) (*InventoryReport, []byte, error)
}

type reportService struct {
	inventoryRepo repository.InventoryRepository
	store         *storage.S3Storage
}

// NewReportService builds a report service. store may be nil when no
// archive bucket is configured; reports are then returned inline only.
func NewReportService(inventoryRepo repository.InventoryRepository, store *storage.S3Storage) ReportService {
	return &reportService{
		inventoryRepo: inventoryRepo,
		store:         store,
	}
}

func (s *reportService) GenerateInventoryReport(ctx context.Context, variantID *uint) (*InventoryReport, []byte, error) {
	logger.Debug("Generating inventory report", map[string]interface{}{
		"variant_id": variantID,
	})

	items, _, err := s.inventoryRepo.FindAll(repository.InventoryFilter{
		VariantID: variantID,
	})
	if err != nil {
		return nil, nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Full SKU", "Serial Number", "Status", "Location", "Cost Basis", "Received At", "Sold At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	var totalValue float64
	for row, item := range items {
		values := []interface{}{
			item.ID,
			variantSKU(&item),
			deref(item.SerialNumber),
			string(item.Status),
			deref(item.LocationCode),
			floatOrEmpty(item.CostBasis),
			timeOrEmpty(item.ReceivedAt),
			timeOrEmpty(item.SoldAt),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
		if item.CostBasis != nil && item.Status != model.StatusSold {
			totalValue += *item.CostBasis
		}
	}

	summaryRow := len(items) + 3
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	f.SetCellValue(sheet, cell, "Total value (unsold)")
	cell, _ = excelize.CoordinatesToCellName(2, summaryRow)
	f.SetCellValue(sheet, cell, totalValue)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to serialize inventory report", err)
		return nil, nil, err
	}

	now := time.Now()
	report := &InventoryReport{
		Filename:    fmt.Sprintf("inventory-%s.xlsx", now.Format("20060102-150405")),
		ItemCount:   len(items),
		TotalValue:  totalValue,
		GeneratedAt: now,
	}

	if s.store != nil {
		stored, err := s.store.UploadReport(ctx, report.Filename, xlsxContentType, bytes.NewReader(buf.Bytes()))
		if err != nil {
			// The workbook is still usable inline, so log and move on.
			logger.Error("Failed to archive inventory report", err, map[string]interface{}{
				"filename": report.Filename,
			})
		} else {
			report.ArchiveKey = stored.Key
			report.ArchiveURL = stored.FileURL
		}
	}

	logger.Info("Inventory report generated", map[string]interface{}{
		"filename":    report.Filename,
		"item_count":  report.ItemCount,
		"total_value": report.TotalValue,
	})
	return report, buf.Bytes(), nil
}

func variantSKU(item *model.InventoryItem) string {
	if item.Variant != nil {
		return item.Variant.FullSKU
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

func timeOrEmpty(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
