package router

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/memstore"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/auth"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/excel"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	testOrg    = "11111111-1111-1111-1111-111111111111"
	otherOrg   = "22222222-2222-2222-2222-222222222222"
	testSecret = "router-test-secret"
)

type testServer struct {
	engine   *gin.Engine
	store    *memstore.Store
	hub      *services.SSEHub
	notifier *services.DispatchNotifier
	token    string
	foreign  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	stores := store.Stores()
	hub := services.NewSSEHub()
	notifier := services.NewDispatchNotifier(hub, nil)
	locker := services.NewLocalCampaignLocker()
	filter := services.NewContactFilter()
	assigner := services.NewInstanceAssigner(nil)

	authService, err := auth.NewAuthService(testSecret)
	require.NoError(t, err)
	token, err := authService.GenerateToken("user-1", testOrg, "ops", time.Hour)
	require.NoError(t, err)
	foreign, err := authService.GenerateToken("user-2", otherOrg, "intruder", time.Hour)
	require.NoError(t, err)

	engine := SetupRouter(Options{
		CampaignService:    services.NewCampaignService(stores, filter, assigner, locker, notifier),
		ActivationService:  services.NewActivationService(stores, filter, assigner, locker, notifier, 100),
		PauseResumeService: services.NewPauseResumeService(stores, locker, notifier),
		InstanceService:    services.NewInstanceService(stores.Instances, notifier, time.Minute),
		ExcelService:       excel.NewExcelService(stores),
		SSEHub:             hub,
		TokenValidator:     authService,
	})

	return &testServer{engine: engine, store: store, hub: hub, notifier: notifier, token: token, foreign: foreign}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func (s *testServer) seedAudience(instances bool, phones ...string) {
	if instances {
		s.store.AddInstance(models.Instance{ID: "inst-a", OrganizationID: testOrg, Name: "Atendimento 01", Status: models.InstanceStatusActive})
	}
	for _, phone := range phones {
		s.store.AddContact(models.Contact{ID: "contact-" + phone, OrganizationID: testOrg, Name: phone, Phone: phone})
	}
}

func (s *testServer) createCampaign(t *testing.T) string {
	t.Helper()
	w, body := s.do(t, http.MethodPost, "/api/v1/campaigns", s.token, models.CreateCampaignRequest{
		Name:            "Mutirão",
		ContentText:     "Olá!",
		MinDelaySeconds: 30,
		MaxDelaySeconds: 60,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestCampaignRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/campaigns", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/campaigns", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.seedAudience(true, "5511900000001", "5511900000002")
	id := s.createCampaign(t)
	base := "/api/v1/campaigns/" + id

	w, body := s.do(t, http.MethodPost, base+"/activate", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), body["inserted_count"])
	assert.Equal(t, true, body["changed"])

	w, body = s.do(t, http.MethodPost, base+"/activate", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["inserted_count"])
	assert.Equal(t, false, body["changed"])

	w, body = s.do(t, http.MethodPost, base+"/pause", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), body["held_count"])
	pauseBatch := body["batch_id"].(string)

	w, body = s.do(t, http.MethodPost, base+"/pause", s.token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["changed"])

	w, body = s.do(t, http.MethodGet, base+"/status", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CampaignStatusPaused, body["status"])

	w, body = s.do(t, http.MethodPost, base+"/resume?batch_id="+pauseBatch, s.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, pauseBatch, body["batch_id"])
	assert.Equal(t, float64(2), body["restored_count"])
	assert.Equal(t, models.CampaignStatusActive, body["status"])

	w, _ = s.do(t, http.MethodPost, base+"/resume", s.token, models.ResumeRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, base+"/resume", s.token, models.ResumeRequest{BatchID: pauseBatch})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodGet, base+"/audit-batches", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var batches []models.AuditBatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batches))
	require.Len(t, batches, 2)

	w, body = s.do(t, http.MethodGet, base, s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["total_mensagens"])

	w, body = s.do(t, http.MethodGet, "/api/v1/campaigns?page=1&page_size=10", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)
}

func TestResumeAlreadyResumedBatchConflicts(t *testing.T) {
	s := newTestServer(t)
	s.seedAudience(true, "5511900000001")
	id := s.createCampaign(t)
	base := "/api/v1/campaigns/" + id

	w, _ := s.do(t, http.MethodPost, base+"/activate", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, body := s.do(t, http.MethodPost, base+"/pause", s.token, nil)
	first := body["batch_id"].(string)
	w, _ = s.do(t, http.MethodPost, base+"/resume", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, base+"/pause", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, base+"/resume", s.token, models.ResumeRequest{BatchID: first})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExportCampaignReportOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.seedAudience(true, "5511900000001", "5511900000002")
	id := s.createCampaign(t)
	base := "/api/v1/campaigns/" + id

	w, _ := s.do(t, http.MethodPost, base+"/activate", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, base+"/export", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(excel.QueueSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	w, body := s.do(t, http.MethodGet, base+"/export", s.foreign, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["changed"])
}

func TestActivationErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.seedAudience(false, "5511900000001")
	id := s.createCampaign(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/campaigns/"+id+"/activate", s.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, false, body["changed"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/campaigns/"+id+"/activate", s.foreign, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/campaigns/"+id, s.foreign, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id := s.createCampaign(t)

	w, body := s.do(t, http.MethodPut, "/api/v1/campaigns/"+id+"/delays", s.token, models.UpdateDelaysRequest{
		MinDelaySeconds: 60,
		MaxDelaySeconds: 30,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "max_delay_seconds", body["field"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/campaigns", s.token, map[string]interface{}{"content_text": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodPut, "/api/v1/campaigns/"+id+"/delays", s.token, models.UpdateDelaysRequest{
		MinDelaySeconds: 10,
		MaxDelaySeconds: 20,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["rerolled"])
}

func TestPreviewAudienceOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.seedAudience(false, "5511900000001", "5511900000002")
	id := s.createCampaign(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/campaigns/"+id+"/audience/preview", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), body["total"])

	w, body = s.do(t, http.MethodPost, "/api/v1/campaigns/"+id+"/audience/preview", s.token, models.AudienceSpec{Cities: []string{"Recife"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["total"])
}

func TestInstancesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.seedAudience(true)

	w, _ := s.do(t, http.MethodGet, "/api/v1/instances", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var instances []models.InstanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &instances))
	require.Len(t, instances, 1)
	assert.Equal(t, "Atendimento 01", instances[0].Name)

	w, _ = s.do(t, http.MethodGet, "/api/v1/instances", s.foreign, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCampaignEventStream(t *testing.T) {
	s := newTestServer(t)
	id := s.createCampaign(t)

	server := httptest.NewServer(s.engine)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		server.URL+"/api/v1/campaigns/"+id+"/events?access_token="+s.token, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event:") {
				return strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			}
		}
	}

	assert.Equal(t, "connected", readEvent())

	// the handler registers before writing the hello event
	require.Eventually(t, func() bool {
		return s.hub.GetClientCount(services.StreamCampaign, id) == 1
	}, time.Second, 10*time.Millisecond)

	s.notifier.Notify(ctx, models.DispatchEvent{
		Type:           models.EventCampaignPaused,
		OrganizationID: testOrg,
		CampaignID:     id,
		Count:          2,
	})
	assert.Equal(t, models.EventCampaignPaused, readEvent())
}
