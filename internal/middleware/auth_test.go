package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"residence-be-svc/internal/mocks"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authSetup struct {
	auth     service.AuthService
	tokens   service.TokenService
	resident *models.Resident
	admin    *models.Admin
}

func newAuthSetup() *authSetup {
	resident := &models.Resident{
		ID: "11111111-1111-1111-1111-111111111111", Name: "Ayesha", Apartment: "A-101",
		Email: "ayesha@example.com", Status: models.ResidentStatusActive, ApprovalStatus: models.ApprovalApproved,
	}
	admin := &models.Admin{ID: "99999999-9999-9999-9999-999999999999", Username: "root", IsSuperAdmin: true}
	tokens := service.NewTokenService("test-secret", time.Hour)
	auth := service.NewAuthService(
		mocks.NewAdminRepository(admin),
		mocks.NewResidentRepository(resident),
		mocks.NewServiceProviderRepository(),
		tokens,
		service.NewMemoryTokenBlacklist(),
		logger.NewNopLogger(),
	)
	return &authSetup{auth: auth, tokens: tokens, resident: resident, admin: admin}
}

func (s *authSetup) router(guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticator(s.auth, logger.NewNopLogger())}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": identity.ID, "type": identity.Role, "token": CurrentToken(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"bearer abc.def", "abc.def"},
		{"BEARER   abc.def ", "abc.def"},
		{"abc.def", "abc.def"},
		{"", ""},
		{"Bearer ", ""},
	}

	for _, tt := range tests {
		if got := ExtractToken(tt.header); got != tt.want {
			t.Errorf("ExtractToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestAuthenticator(t *testing.T) {
	s := newAuthSetup()
	token, err := s.tokens.Issue(s.resident)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	r := s.router()

	for _, header := range []string{"Bearer " + token, token} {
		w := doGet(r, header)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d for %q, body %s", w.Code, header[:6], w.Body.String())
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["id"] != s.resident.ID || body["type"] != string(models.RoleResident) || body["token"] != token {
			t.Errorf("unexpected identity in context: %v", body)
		}
	}
}

func TestAuthenticatorFailures(t *testing.T) {
	s := newAuthSetup()
	r := s.router()

	w := doGet(r, "")
	if w.Code != http.StatusUnauthorized || envelope(t, w).Message != "No token provided" {
		t.Errorf("missing token: %d %s", w.Code, w.Body.String())
	}

	w = doGet(r, "Bearer garbage")
	if w.Code != http.StatusForbidden || envelope(t, w).Message != "Invalid token" {
		t.Errorf("garbage token: %d %s", w.Code, w.Body.String())
	}

	token, _ := s.tokens.Issue(s.resident)
	if err := s.auth.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	w = doGet(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized || envelope(t, w).Message != "Token has been invalidated" {
		t.Errorf("revoked token: %d %s", w.Code, w.Body.String())
	}
}

func TestRoleGuards(t *testing.T) {
	s := newAuthSetup()
	residentToken, _ := s.tokens.Issue(s.resident)
	adminToken, _ := s.tokens.Issue(s.admin)

	nop := logger.NewNopLogger()

	tests := []struct {
		name        string
		guard       gin.HandlerFunc
		token       string
		wantStatus  int
		wantMessage string
	}{
		{"admin only admits admin", AdminOnly(nop), adminToken, http.StatusOK, ""},
		{"admin only rejects resident", AdminOnly(nop), residentToken, http.StatusForbidden, "Access denied. Admin only."},
		{"resident only rejects admin", ResidentOnly(nop), adminToken, http.StatusForbidden, "Access denied. Resident only."},
		{"admin or resident admits resident", AdminOrResident(nop), residentToken, http.StatusOK, ""},
		{"service provider only rejects resident", ServiceProviderOnly(nop), residentToken, http.StatusForbidden, "Access denied. Service Provider only."},
		{"admin or service provider rejects resident", AdminOrServiceProvider(nop), residentToken, http.StatusForbidden, "Access denied. Admin or Service Provider only."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(s.router(tt.guard), "Bearer "+tt.token)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantMessage != "" && envelope(t, w).Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", envelope(t, w).Message, tt.wantMessage)
			}
		})
	}
}

func TestGuardWithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/open", AdminOnly(logger.NewNopLogger()), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when no identity is present", w.Code)
	}
}

func TestGuardLogsDenial(t *testing.T) {
	s := newAuthSetup()
	residentToken, _ := s.tokens.Issue(s.resident)
	adminToken, _ := s.tokens.Issue(s.admin)

	base, hook := logtest.NewNullLogger()
	guard := AdminOnly(&logger.Logger{Logger: base})

	if w := doGet(s.router(guard), "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Fatalf("admin status = %d", w.Code)
	}
	if n := len(hook.AllEntries()); n != 0 {
		t.Fatalf("admitted request logged %d entries", n)
	}

	if w := doGet(s.router(guard), "Bearer "+residentToken); w.Code != http.StatusForbidden {
		t.Fatalf("resident status = %d", w.Code)
	}
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("denied request was not logged")
	}
	if entry.Level != logrus.WarnLevel || entry.Message != "Role check failed" {
		t.Errorf("unexpected entry: %s %q", entry.Level, entry.Message)
	}
	if entry.Data["role"] != "resident" || entry.Data["path"] != "/protected" || entry.Data["user_id"] != s.resident.ID {
		t.Errorf("missing context: %+v", entry.Data)
	}
	if allowed, _ := entry.Data["allowed"].([]string); len(allowed) != 1 || allowed[0] != "admin" {
		t.Errorf("allowed = %v, want [admin]", entry.Data["allowed"])
	}
}
