package excel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Sheet names of a campaign report workbook
const (
	SummarySheet = "Summary"
	QueueSheet   = "Queue"
	AuditSheet   = "Audit"
)

var queueColumns = []string{
	"id", "phone", "contact_name", "instance_id", "status",
	"delay_seconds", "error_message", "responded_at", "created_at", "updated_at",
}

var auditColumns = []string{
	"id", "operation", "message_count", "resumed_batch_id", "performed_by", "performed_at",
}

// Service renders campaign reports as xlsx workbooks
type Service struct {
	stores repository.Stores
}

// NewExcelService creates a new Excel service instance
func NewExcelService(stores repository.Stores) *Service {
	return &Service{stores: stores}
}

// ExportResult describes a rendered report
type ExportResult struct {
	Filename     string
	MessageCount int
	AuditCount   int
}

// ExportCampaignReport writes the campaign's summary, queue and audit ledger to w as one workbook.
// Queue rows are colored by dispatch status.
func (s *Service) ExportCampaignReport(ctx context.Context, organizationID, campaignID string, w io.Writer) (*ExportResult, error) {
	campaign, err := s.stores.Campaigns.GetByOrganizationAndID(ctx, organizationID, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, services.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}

	messages, err := s.stores.Messages.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued messages: %w", err)
	}
	batches, err := s.stores.Audits.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit batches: %w", err)
	}

	var counts models.MessageCounts
	for _, msg := range messages {
		counts.Add(msg.Status, 1)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("Failed to close workbook for campaign %s: %v", campaignID, err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{QueueSheet, AuditSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, campaign, counts, headerStyle); err != nil {
		return nil, err
	}
	if err := writeQueue(f, messages, headerStyle); err != nil {
		return nil, err
	}
	if err := writeAudit(f, batches, headerStyle); err != nil {
		return nil, err
	}

	if err := f.Write(w); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return &ExportResult{
		Filename:     fmt.Sprintf("campaign_%s_%d.xlsx", campaignID, time.Now().Unix()),
		MessageCount: len(messages),
		AuditCount:   len(batches),
	}, nil
}

func writeSummary(f *excelize.File, campaign *models.Campaign, counts models.MessageCounts, headerStyle int) error {
	rows := [][]interface{}{
		{"campaign_id", campaign.ID},
		{"name", campaign.Name},
		{"status", services.DeriveStatus(counts, campaign.Status)},
		{"stored_status", campaign.Status},
		{"total_mensagens", campaign.TotalMensagens},
		{"pending", counts.Pending},
		{"processing", counts.Processing},
		{"held", counts.Held},
		{"sent", counts.Sent},
		{"failed", counts.Failed},
		{"min_delay_seconds", campaign.MinDelaySeconds},
		{"max_delay_seconds", campaign.MaxDelaySeconds},
		{"exported_at", time.Now().UTC().Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "B", 25)
}

func writeQueue(f *excelize.File, messages []*models.QueuedMessage, headerStyle int) error {
	if err := writeHeader(f, QueueSheet, queueColumns, headerStyle); err != nil {
		return err
	}

	statusStyles, err := newStatusStyles(f)
	if err != nil {
		return err
	}

	last := columnToLetter(len(queueColumns))
	for i, msg := range messages {
		rowNum := i + 2
		var respondedAt string
		if msg.RespondedAt != nil {
			respondedAt = msg.RespondedAt.Format(time.RFC3339)
		}
		row := []interface{}{
			msg.ID, msg.Phone, msg.ContactName, msg.InstanceID, msg.Status,
			msg.DelaySeconds, msg.ErrorMessage, respondedAt,
			msg.CreatedAt.Format(time.RFC3339), msg.UpdatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(QueueSheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
			return fmt.Errorf("failed to write queue row: %w", err)
		}
		if style, ok := statusStyles[strings.ToLower(msg.Status)]; ok {
			if err := f.SetCellStyle(QueueSheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", last, rowNum), style); err != nil {
				return err
			}
		}
	}

	for i, col := range queueColumns {
		letter := columnToLetter(i + 1)
		width := 18.0
		switch col {
		case "id", "instance_id":
			width = 38.0
		case "contact_name":
			width = 25.0
		case "error_message":
			width = 50.0
		case "status", "delay_seconds":
			width = 14.0
		}
		if err := f.SetColWidth(QueueSheet, letter, letter, width); err != nil {
			return err
		}
	}
	return nil
}

func writeAudit(f *excelize.File, batches []*models.AuditBatch, headerStyle int) error {
	if err := writeHeader(f, AuditSheet, auditColumns, headerStyle); err != nil {
		return err
	}
	for i, batch := range batches {
		var resumed string
		if batch.ResumedBatchID != nil {
			resumed = *batch.ResumedBatchID
		}
		row := []interface{}{
			batch.ID, batch.Operation, len(batch.MessageIDs), resumed,
			batch.PerformedBy, batch.PerformedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(AuditSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("failed to write audit row: %w", err)
		}
	}
	return f.SetColWidth(AuditSheet, "A", columnToLetter(len(auditColumns)), 38)
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) error {
	for i, col := range columns {
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s1", columnToLetter(i+1)), col); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, "A1", columnToLetter(len(columns))+"1", style)
}

// newStatusStyles maps dispatch status to a row fill
func newStatusStyles(f *excelize.File) (map[string]int, error) {
	fills := map[string]string{
		models.MessageStatusPending:    "FFFF00", // yellow
		models.MessageStatusProcessing: "FFC000", // orange
		models.MessageStatusHeld:       "B4C6E7", // light blue
		models.MessageStatusSent:       "C6EFCE", // green
		models.MessageStatusError:      "D9D9D9", // gray
	}
	styles := make(map[string]int, len(fills))
	for status, color := range fills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s style: %w", status, err)
		}
		styles[status] = style
	}
	return styles, nil
}

func columnToLetter(col int) string {
	var result string
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
