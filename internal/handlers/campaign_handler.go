package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService    *services.CampaignService
	activationService  *services.ActivationService
	pauseResumeService *services.PauseResumeService
}

func NewCampaignHandler(
	campaignService *services.CampaignService,
	activationService *services.ActivationService,
	pauseResumeService *services.PauseResumeService,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService:    campaignService,
		activationService:  activationService,
		pauseResumeService: pauseResumeService,
	}
}

// CreateCampaign godoc
// @Summary Create a new campaign
// @Description Create a draft campaign for the caller's organization
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCampaignRequest true "Create campaign request"
// @Success 201 {object} models.CampaignResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)

	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.campaignService.CreateCampaign(c.Request.Context(), organizationID, &req)
	if err != nil {
		respondError(c, err, "Failed to create campaign")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetCampaigns godoc
// @Summary List campaigns
// @Description Get the organization's campaigns with their derived status, newest first
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	campaigns, total, err := h.campaignService.GetCampaigns(c.Request.Context(), organizationID, page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to get campaigns")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       campaigns,
		"pagination": utils.CalculatePaginationInfo(total, page, pageSize),
	})
}

// GetCampaign godoc
// @Summary Get campaign by ID
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.CampaignResponse
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)

	response, err := h.campaignService.GetCampaignByID(c.Request.Context(), organizationID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get campaign")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCampaignStatus godoc
// @Summary Get campaign status
// @Description Stored status, status derived from the queue, and per-status message counts
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.CampaignStatusResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/status [get]
func (h *CampaignHandler) GetCampaignStatus(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)

	response, err := h.campaignService.GetStatus(c.Request.Context(), organizationID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get campaign status")
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateDelays godoc
// @Summary Update send delays
// @Description Change the delay bounds; every message still pending gets a new delay
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body models.UpdateDelaysRequest true "Delay bounds"
// @Success 200 {object} models.UpdateDelaysResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/delays [put]
func (h *CampaignHandler) UpdateDelays(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)

	var req models.UpdateDelaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.campaignService.UpdateDelays(c.Request.Context(), organizationID, c.Param("id"), req.MinDelaySeconds, req.MaxDelaySeconds)
	if err != nil {
		respondError(c, err, "Failed to update delays")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ActivateCampaign godoc
// @Summary Activate campaign
// @Description Resolve the audience and queue one message per new phone. Safe to repeat.
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.ActivationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/activate [post]
func (h *CampaignHandler) ActivateCampaign(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)

	result, err := h.activationService.Activate(c.Request.Context(), organizationID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to activate campaign")
		return
	}

	c.JSON(http.StatusOK, models.ActivationResponse{
		CampaignID:     result.CampaignID,
		InsertedCount:  result.Inserted,
		TotalMensagens: result.TotalMensagens,
		Status:         result.Status,
		Changed:        result.Inserted > 0,
	})
}

// PauseCampaign godoc
// @Summary Pause campaign
// @Description Hold every pending or processing message. The returned batch id can be used to undo.
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.PauseResponse
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/pause [post]
func (h *CampaignHandler) PauseCampaign(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)
	userID := c.MustGet("user_id").(string)

	batch, err := h.pauseResumeService.Pause(c.Request.Context(), organizationID, c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to pause campaign")
		return
	}

	c.JSON(http.StatusOK, models.PauseResponse{
		BatchID:     batch.ID,
		CampaignID:  batch.CampaignID,
		HeldCount:   len(batch.MessageIDs),
		MessageIDs:  batch.MessageIDs,
		PerformedAt: batch.PerformedAt,
		Status:      models.CampaignStatusPaused,
		Changed:     true,
	})
}

// ResumeCampaign godoc
// @Summary Resume campaign
// @Description Restore one pause batch (the latest not yet resumed when batch_id is omitted)
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body models.ResumeRequest false "Pause batch to restore"
// @Success 200 {object} models.ResumeResponse
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/resume [post]
func (h *CampaignHandler) ResumeCampaign(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)
	userID := c.MustGet("user_id").(string)

	var req models.ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}
	if req.BatchID == "" {
		req.BatchID = c.Query("batch_id")
	}

	result, err := h.pauseResumeService.Resume(c.Request.Context(), organizationID, c.Param("id"), req.BatchID, userID)
	if err != nil {
		respondError(c, err, "Failed to resume campaign")
		return
	}

	c.JSON(http.StatusOK, models.ResumeResponse{
		BatchID:       result.PauseBatchID,
		CampaignID:    c.Param("id"),
		RestoredCount: len(result.Restored),
		MessageIDs:    result.Restored,
		Status:        result.Status,
		Changed:       len(result.Restored) > 0,
	})
}

// GetAuditBatches godoc
// @Summary List pause/resume batches
// @Tags campaigns
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {array} models.AuditBatch
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/audit-batches [get]
func (h *CampaignHandler) GetAuditBatches(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)

	batches, err := h.campaignService.GetAuditBatches(c.Request.Context(), organizationID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get audit batches")
		return
	}

	c.JSON(http.StatusOK, batches)
}

// PreviewAudience godoc
// @Summary Preview audience
// @Description Resolve an audience without queuing anything. Without a body the campaign's stored audience is used.
// @Tags campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body models.AudienceSpec false "Audience spec"
// @Success 200 {object} models.AudiencePreviewResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/audience/preview [post]
func (h *CampaignHandler) PreviewAudience(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)

	var spec *models.AudienceSpec
	var body models.AudienceSpec
	if err := c.ShouldBindJSON(&body); err == nil {
		spec = &body
	} else if !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.campaignService.PreviewAudience(c.Request.Context(), organizationID, c.Param("id"), spec)
	if err != nil {
		respondError(c, err, "Failed to preview audience")
		return
	}

	c.JSON(http.StatusOK, response)
}
