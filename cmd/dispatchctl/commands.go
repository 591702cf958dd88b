package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/auth"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/excel"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/utils"

	"github.com/spf13/cobra"
)

var errMissingOrganization = errors.New("--org is required")

var resumeBatchID string

var exportOutput string

var (
	tokenUserID   string
	tokenUsername string
	tokenTTL      time.Duration
)

var activateCmd = &cobra.Command{
	Use:   "activate <campaign-id>",
	Short: "Resolve the audience and enqueue messages",
	Long: `Resolve the campaign's audience and enqueue one message per new phone.

Phones already queued for the campaign are skipped, so the command is safe to re-run.`,
	Args: cobra.ExactArgs(1),
	RunE: runActivate,
}

var pauseCmd = &cobra.Command{
	Use:   "pause <campaign-id>",
	Short: "Hold every pending message of a campaign",
	Args:  cobra.ExactArgs(1),
	RunE:  runPause,
}

var resumeCmd = &cobra.Command{
	Use:   "resume <campaign-id>",
	Short: "Release a pause batch back to the queue",
	Long: `Release the messages of a pause batch back to pending.

Without --batch the newest pause batch that was not resumed yet is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

var statusCmd = &cobra.Command{
	Use:   "status <campaign-id>",
	Short: "Show the derived status and queue counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var exportCmd = &cobra.Command{
	Use:   "export <campaign-id>",
	Short: "Write the campaign report as an xlsx workbook",
	Long: `Write the campaign summary, its queue colored by dispatch status and its
pause/resume ledger to an xlsx workbook.

Without --out the file is named after the campaign in the current directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the HTTP API",
	RunE:  runToken,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeBatchID, "batch", "", "pause batch to release")

	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "path of the workbook to write")

	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id carried by the token")
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "username carried by the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runActivate(cmd *cobra.Command, args []string) error {
	if err := requireOrganization(); err != nil {
		return err
	}
	core, err := openCore()
	if err != nil {
		return err
	}

	var result *services.ActivationResult
	err = utils.Retry(cmd.Context(), utils.DefaultRetryPolicy, func(ctx context.Context) error {
		var activateErr error
		result, activateErr = core.activation.Activate(ctx, organizationID, args[0])
		return activateErr
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, models.ActivationResponse{
		CampaignID:     result.CampaignID,
		InsertedCount:  result.Inserted,
		TotalMensagens: result.TotalMensagens,
		Status:         result.Status,
		Changed:        result.Inserted > 0,
	})
}

func runPause(cmd *cobra.Command, args []string) error {
	if err := requireOrganization(); err != nil {
		return err
	}
	core, err := openCore()
	if err != nil {
		return err
	}

	var batch *models.AuditBatch
	err = utils.Retry(cmd.Context(), utils.DefaultRetryPolicy, func(ctx context.Context) error {
		var pauseErr error
		batch, pauseErr = core.pauseResume.Pause(ctx, organizationID, args[0], actorID)
		return pauseErr
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, models.PauseResponse{
		BatchID:     batch.ID,
		CampaignID:  batch.CampaignID,
		HeldCount:   len(batch.MessageIDs),
		MessageIDs:  batch.MessageIDs,
		PerformedAt: batch.PerformedAt,
		Status:      models.CampaignStatusPaused,
		Changed:     true,
	})
}

func runResume(cmd *cobra.Command, args []string) error {
	if err := requireOrganization(); err != nil {
		return err
	}
	core, err := openCore()
	if err != nil {
		return err
	}

	var result *services.ResumeResult
	err = utils.Retry(cmd.Context(), utils.DefaultRetryPolicy, func(ctx context.Context) error {
		var resumeErr error
		result, resumeErr = core.pauseResume.Resume(ctx, organizationID, args[0], resumeBatchID, actorID)
		return resumeErr
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, models.ResumeResponse{
		BatchID:       result.PauseBatchID,
		CampaignID:    args[0],
		RestoredCount: len(result.Restored),
		MessageIDs:    result.Restored,
		Status:        result.Status,
		Changed:       len(result.Restored) > 0,
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireOrganization(); err != nil {
		return err
	}
	core, err := openCore()
	if err != nil {
		return err
	}

	var status *models.CampaignStatusResponse
	err = utils.Retry(cmd.Context(), utils.DefaultRetryPolicy, func(ctx context.Context) error {
		var statusErr error
		status, statusErr = core.campaigns.GetStatus(ctx, organizationID, args[0])
		return statusErr
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, status)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := requireOrganization(); err != nil {
		return err
	}
	core, err := openCore()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var result *excel.ExportResult
	err = utils.Retry(cmd.Context(), utils.DefaultRetryPolicy, func(ctx context.Context) error {
		buf.Reset()
		var exportErr error
		result, exportErr = core.reports.ExportCampaignReport(ctx, organizationID, args[0], &buf)
		return exportErr
	})
	if err != nil {
		return err
	}

	path := exportOutput
	if path == "" {
		path = result.Filename
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return printJSON(cmd, map[string]interface{}{
		"campaign_id":   args[0],
		"path":          path,
		"message_count": result.MessageCount,
		"audit_count":   result.AuditCount,
	})
}

func runToken(cmd *cobra.Command, _ []string) error {
	if err := requireOrganization(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	authService, err := auth.NewAuthService(cfg.JWT.Secret)
	if err != nil {
		return err
	}
	token, err := authService.GenerateToken(tokenUserID, organizationID, tokenUsername, tokenTTL)
	if err != nil {
		return err
	}

	return printJSON(cmd, map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(tokenTTL.Seconds()),
	})
}
