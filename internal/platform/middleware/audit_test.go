package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinsight/clinsight/internal/platform/auth"
)

type mockAuditRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error
}

func (m *mockAuditRecorder) RecordAccess(entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockAuditRecorder) last() AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

func (m *mockAuditRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func auditContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func setAuthUser(c echo.Context, userID string, roles []string) {
	ctx := c.Request().Context()
	ctx = context.WithValue(ctx, auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRolesKey, roles)
	c.SetRequest(c.Request().WithContext(ctx))
}

func auditOK(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAudit_PatientRead(t *testing.T) {
	logger := zerolog.Nop()
	rec := &mockAuditRecorder{}
	patientID := uuid.NewString()

	c, _ := auditContext(http.MethodGet, "/api/v1/patients/"+patientID)
	c.SetParamNames("id")
	c.SetParamValues(patientID)
	setAuthUser(c, "user-1", []string{"researcher"})
	c.Set("request_id", "req-abc")

	if err := Audit(logger, rec)(auditOK)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.count() != 1 {
		t.Fatalf("expected 1 audit entry, got %d", rec.count())
	}
	entry := rec.last()
	if entry.UserID != "user-1" {
		t.Errorf("expected user_id 'user-1', got %q", entry.UserID)
	}
	if entry.Resource != "patients" {
		t.Errorf("expected resource 'patients', got %q", entry.Resource)
	}
	if entry.PatientID != patientID {
		t.Errorf("expected patient_id %q, got %q", patientID, entry.PatientID)
	}
	if entry.Action != "read" {
		t.Errorf("expected action 'read', got %q", entry.Action)
	}
	if entry.RequestID != "req-abc" {
		t.Errorf("expected request_id 'req-abc', got %q", entry.RequestID)
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", entry.StatusCode)
	}
}

func TestAudit_InsightCreate(t *testing.T) {
	rec := &mockAuditRecorder{}

	c, _ := auditContext(http.MethodPost, "/api/v1/insights?patient_id=p-123")
	setAuthUser(c, "user-2", []string{"researcher"})

	if err := Audit(zerolog.Nop(), rec)(auditOK)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := rec.last()
	if entry.Action != "create" {
		t.Errorf("expected action 'create', got %q", entry.Action)
	}
	if entry.Resource != "insights" {
		t.Errorf("expected resource 'insights', got %q", entry.Resource)
	}
	if entry.PatientID != "p-123" {
		t.Errorf("expected patient_id from query, got %q", entry.PatientID)
	}
}

func TestAudit_SkipsNonAPIPaths(t *testing.T) {
	rec := &mockAuditRecorder{}

	c, _ := auditContext(http.MethodGet, "/health")
	if err := Audit(zerolog.Nop(), rec)(auditOK)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("expected no audit entries for /health, got %d", rec.count())
	}
}

func TestAudit_RecorderFailureDoesNotFailRequest(t *testing.T) {
	rec := &mockAuditRecorder{err: errors.New("store down")}

	c, resp := auditContext(http.MethodGet, "/api/v1/patients")
	setAuthUser(c, "user-3", []string{"viewer"})

	if err := Audit(zerolog.Nop(), rec)(auditOK)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Code != http.StatusOK {
		t.Errorf("expected 200 despite recorder failure, got %d", resp.Code)
	}
}
