package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whichcharacter/internal/service"
)

func newAdminTestRouter(t *testing.T) (*gin.Engine, *service.AdminAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAdminAuthService("test-secret", "admin123", "", time.Minute)
	h := NewAdminHandler(zap.NewNop(), auth, nil, nil, nil, nil, nil, nil)

	r := gin.New()
	r.POST("/admin/login", h.Login)
	protected := r.Group("/admin")
	protected.Use(AdminAuthMiddleware(auth))
	protected.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r, auth
}

func TestAdminLoginIssuesToken(t *testing.T) {
	r, _ := newAdminTestRouter(t)

	body := bytes.NewBufferString(`{"token": "admin123"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.AccessToken == "" {
		t.Fatalf("expected access token in response, got %s", w.Body.String())
	}
}

func TestAdminLoginRejectsWrongToken(t *testing.T) {
	r, _ := newAdminTestRouter(t)

	body := bytes.NewBufferString(`{"token": "wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminMiddlewareBlocksWithoutToken(t *testing.T) {
	r, auth := newAdminTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", w.Code)
	}

	jwt, err := auth.Login("admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+jwt)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", w.Code)
	}
}
