package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/orchestrator"
	"github.com/oceanic/riskscreen/internal/registry"
)

type fakeOrchestrator struct {
	verdict models.OperationVerdict
	err     error
	lastReq orchestrator.ScreeningRequest
}

func (f *fakeOrchestrator) Screen(ctx context.Context, req orchestrator.ScreeningRequest) (models.OperationVerdict, error) {
	f.lastReq = req
	return f.verdict, f.err
}

type fakeReconciler struct {
	verdict  models.OperationVerdict
	appended bool
	err      error
}

func (f *fakeReconciler) Reconcile(ctx context.Context, operationID string) (models.OperationVerdict, bool, error) {
	return f.verdict, f.appended, f.err
}

type fakeApprovalStore struct {
	appended []models.ApprovalRecord
}

func (f *fakeApprovalStore) AppendApprovals(ctx context.Context, approvals []models.ApprovalRecord) error {
	f.appended = append(f.appended, approvals...)
	return nil
}

func newTestServer(orch *fakeOrchestrator, rec *fakeReconciler, st *fakeApprovalStore) *Server {
	return New(orch, rec, st, registry.New(), nil, nil, nil, nil)
}

func TestHandleScreen_DecodesListAndSingleRoles(t *testing.T) {
	orch := &fakeOrchestrator{verdict: models.OperationVerdict{ID: "op-1"}}
	s := newTestServer(orch, &fakeReconciler{}, &fakeApprovalStore{})

	body := `{
		"uuid": "op-1",
		"vessel_imo": "9842190",
		"vessel_name": "MV Test",
		"stakeholders": {
			"seller": "Acme Trading",
			"buyer": "Beta Corp",
			"broker": ["Broker One", "Broker Two"]
		}
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/screen/purchase", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	s.handleScreen("purchase")(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Acme Trading"}, orch.lastReq.Stakeholders["seller"])
	assert.Equal(t, []string{"Beta Corp"}, orch.lastReq.Stakeholders["buyer"])
	assert.Equal(t, []string{"Broker One", "Broker Two"}, orch.lastReq.Stakeholders["broker"])
}

func TestHandleScreen_EmptyRoleProducesEmptySlice(t *testing.T) {
	orch := &fakeOrchestrator{verdict: models.OperationVerdict{ID: "op-2"}}
	s := newTestServer(orch, &fakeReconciler{}, &fakeApprovalStore{})

	body := `{"uuid": "op-2", "vessel_imo": "9842190", "vessel_name": "MV Test", "stakeholders": {}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/screen/purchase", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	s.handleScreen("purchase")(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	for _, role := range registry.StakeholderRoles("purchase") {
		assert.Equal(t, []string{}, orch.lastReq.Stakeholders[role])
	}
}

func TestHandleScreen_MissingVesselIMORejected(t *testing.T) {
	s := newTestServer(&fakeOrchestrator{}, &fakeReconciler{}, &fakeApprovalStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/screen/purchase", bytes.NewBufferString(`{"uuid":"op-3"}`))
	w := httptest.NewRecorder()

	s.handleScreen("purchase")(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleApproval_PersistsThenReconciles(t *testing.T) {
	reconciled := models.OperationVerdict{ID: "op-4", Overall: models.RiskNone}
	rec := &fakeReconciler{verdict: reconciled, appended: true}
	store := &fakeApprovalStore{}
	s := newTestServer(&fakeOrchestrator{}, rec, store)

	body := `{
		"uuid": "op-4",
		"approved_at": "2026-01-02T00:00:00Z",
		"approvals": [
			{"role": "seller", "name": "Acme Trading", "risk_change_status": "无风险", "change_reason": "cleared"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	s.handleApproval(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.appended, 1)
	assert.Equal(t, "op-4", store.appended[0].OperationID)
	assert.Equal(t, models.RiskNone, store.appended[0].OverrideLevel)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), store.appended[0].ApprovedAt)

	var dto operationVerdictDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "op-4", dto.UUID)
}

func TestHandleApproval_RequiresUUID(t *testing.T) {
	s := newTestServer(&fakeOrchestrator{}, &fakeReconciler{}, &fakeApprovalStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", bytes.NewBufferString(`{"approvals": []}`))
	w := httptest.NewRecorder()

	s.handleApproval(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
