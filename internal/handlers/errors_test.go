package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	boom := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		code    int
		changed interface{}
	}{
		{"validation", &services.ValidationError{Field: "name", Message: "name is required"}, http.StatusBadRequest, false},
		{"campaign not found", services.ErrCampaignNotFound, http.StatusNotFound, false},
		{"no pause batch", services.ErrNoPauseBatchFound, http.StatusNotFound, false},
		{"no instances", fmt.Errorf("activate: %w", services.ErrNoActiveInstances), http.StatusUnprocessableEntity, false},
		{"nothing to pause", services.ErrNothingToPause, http.StatusConflict, false},
		{"already resumed", services.ErrBatchAlreadyResumed, http.StatusConflict, false},
		{"partial activation", &services.PartialActivationFailure{Inserted: 2, Err: boom}, http.StatusInternalServerError, true},
		{"partial activation before any insert", &services.PartialActivationFailure{Err: boom}, http.StatusInternalServerError, false},
		{"audit write", &services.AuditWriteFailure{Err: boom}, http.StatusInternalServerError, false},
		{"unexpected", boom, http.StatusInternalServerError, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err, "Operation failed")

			assert.Equal(t, tt.code, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.changed, body["changed"])
			assert.NotEmpty(t, body["error"])
		})
	}
}
