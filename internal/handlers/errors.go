package handlers

import (
	"errors"
	"net/http"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps service errors to HTTP responses. "changed" tells the caller whether
// anything was written before the failure.
func respondError(c *gin.Context, err error, fallback string) {
	var validationErr *services.ValidationError
	var partial *services.PartialActivationFailure
	var auditErr *services.AuditWriteFailure

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field, "changed": false})
	case errors.Is(err, services.ErrCampaignNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "changed": false})
	case errors.Is(err, services.ErrNoPauseBatchFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "changed": false})
	case errors.Is(err, services.ErrNoActiveInstances):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "changed": false})
	case errors.Is(err, services.ErrNothingToPause), errors.Is(err, services.ErrBatchAlreadyResumed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "changed": false})
	case errors.As(err, &partial):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "Activation stopped before all messages were queued; retrying is safe",
			"details":  partial.Err.Error(),
			"inserted": partial.Inserted,
			"changed":  partial.Inserted > 0,
		})
	case errors.As(err, &auditErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": auditErr.Err.Error(), "changed": false})
	default:
		logrus.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
