package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func requestWithRoles(mw echo.MiddlewareFunc, handler echo.HandlerFunc, roles []string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return mw(handler)(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	err := requestWithRoles(RequireRole("researcher"), okHandler, []string{"researcher"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	err := requestWithRoles(RequireRole("researcher"), okHandler, []string{"admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	err := requestWithRoles(RequireRole("researcher"), okHandler, []string{"viewer"})
	assertHTTPError(t, err, http.StatusForbidden)
}

func TestRequireRole_NoRoles(t *testing.T) {
	err := requestWithRoles(RequireRole("viewer"), okHandler, nil)
	assertHTTPError(t, err, http.StatusForbidden)
}
