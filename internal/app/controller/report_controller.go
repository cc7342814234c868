package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usav/inventory-backend/internal/app/service"
	apperrors "github.com/usav/inventory-backend/internal/errors"
	"github.com/usav/inventory-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// GenerateInventoryReport builds a valuation workbook. With
// ?download=true the XLSX bytes are streamed back directly; otherwise
// the response describes the report and its archive location.
// POST /api/v1/reports/inventory
func (ctrl *ReportController) GenerateInventoryReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var variantID *uint
	if idStr := c.Query("variant_id"); idStr != "" {
		id, ok := parseQueryID(c, idStr)
		if !ok {
			return
		}
		variantID = &id
	}

	report, workbook, err := ctrl.reportService.GenerateInventoryReport(c.Request.Context(), variantID)
	if err != nil {
		log.Error("Failed to generate inventory report", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ReportGenerationFailed, "could not generate the inventory report")
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename))
		c.Data(http.StatusOK, xlsxContentType, workbook)
		return
	}

	c.JSON(http.StatusOK, report)
}
