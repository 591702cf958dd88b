package handlers

import (
	"net/http"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sseHeartbeatInterval = 25 * time.Second

type EventsHandler struct {
	campaignService *services.CampaignService
	sseHub          *services.SSEHub
}

func NewEventsHandler(campaignService *services.CampaignService, sseHub *services.SSEHub) *EventsHandler {
	return &EventsHandler{campaignService: campaignService, sseHub: sseHub}
}

// StreamCampaignEvents godoc
// @Summary Stream campaign events via Server-Sent Events (SSE)
// @Description Status changes of one campaign: activation, pause, resume, delay updates and message reports
// @Tags events
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 "SSE stream"
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/events [get]
func (h *EventsHandler) StreamCampaignEvents(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)
	campaignID := c.Param("id")

	status, err := h.campaignService.GetStatus(c.Request.Context(), organizationID, campaignID)
	if err != nil {
		respondError(c, err, "Failed to open event stream")
		return
	}

	h.stream(c, services.StreamCampaign, campaignID, gin.H{
		"campaign_id": campaignID,
		"status":      status.Status,
		"counts":      status.Counts,
	})
}

// StreamOrganizationEvents godoc
// @Summary Stream organization events via Server-Sent Events (SSE)
// @Description Every campaign event of the caller's organization plus instance status changes
// @Tags events
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 "SSE stream"
// @Router /api/v1/events [get]
func (h *EventsHandler) StreamOrganizationEvents(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)
	h.stream(c, services.StreamOrganization, organizationID, gin.H{"organization_id": organizationID})
}

func (h *EventsHandler) stream(c *gin.Context, scope, id string, hello gin.H) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable buffering for nginx
	c.Status(http.StatusOK)

	clientChan := h.sseHub.RegisterClient(scope, id)
	defer h.sseHub.UnregisterClient(scope, id, clientChan)

	c.SSEvent("connected", hello)
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			logrus.Debugf("SSE client disconnected: %s/%s", scope, id)
			return
		case <-heartbeat.C:
			h.sseHub.SendHeartbeat(scope, id)
		case message, ok := <-clientChan:
			if !ok {
				return
			}
			if _, err := c.Writer.Write(message); err != nil {
				logrus.Errorf("Failed to write SSE message: %v", err)
				return
			}
			c.Writer.Flush()
		}
	}
}
