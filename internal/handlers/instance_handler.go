package handlers

import (
	"net/http"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type InstanceHandler struct {
	instanceService *services.InstanceService
}

func NewInstanceHandler(instanceService *services.InstanceService) *InstanceHandler {
	return &InstanceHandler{instanceService: instanceService}
}

// GetInstances godoc
// @Summary List instances
// @Description Get the organization's WhatsApp instances and their status
// @Tags instances
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.InstanceResponse
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/instances [get]
func (h *InstanceHandler) GetInstances(c *gin.Context) {
	organizationID := c.MustGet("organization_id").(string)

	instances, err := h.instanceService.GetInstances(c.Request.Context(), organizationID)
	if err != nil {
		respondError(c, err, "Failed to get instances")
		return
	}

	c.JSON(http.StatusOK, instances)
}
