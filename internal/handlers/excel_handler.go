package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/excel"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelHandler serves campaign reports as spreadsheets
type ExcelHandler struct {
	excelService *excel.Service
}

// NewExcelHandler creates a new ExcelHandler instance
func NewExcelHandler(excelService *excel.Service) *ExcelHandler {
	return &ExcelHandler{excelService: excelService}
}

// ExportCampaignReport godoc
// @Summary Export a campaign report
// @Description Download the campaign summary, its queue colored by status and its pause/resume ledger as an xlsx workbook
// @Tags campaigns
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {file} file
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/export [get]
func (h *ExcelHandler) ExportCampaignReport(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)
	campaignID := c.Param("id")

	// Rendered in memory so a failure can still be answered with JSON
	var buf bytes.Buffer
	result, err := h.excelService.ExportCampaignReport(c.Request.Context(), organizationID, campaignID, &buf)
	if err != nil {
		respondError(c, err, "Failed to export campaign")
		return
	}

	logrus.Debugf("Exported campaign %s: %d messages, %d audit batches", campaignID, result.MessageCount, result.AuditCount)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
