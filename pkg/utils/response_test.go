package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessResponse(c, "Bills fetched successfully", gin.H{"count": 2})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeEnvelope(t, w)
	if !resp.Success || resp.Message != "Bills fetched successfully" || resp.Status != http.StatusOK {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	if resp.Error != nil {
		t.Errorf("success envelope must not carry an error, got %v", resp.Error)
	}
}

func TestCreatedResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	CreatedResponse(c, "created", nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if resp := decodeEnvelope(t, w); !resp.Success || resp.Status != http.StatusCreated {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"invalid argument", InvalidArgument("Invalid month"), http.StatusBadRequest, "Invalid month"},
		{"unauthenticated", Unauthenticated("No token provided"), http.StatusUnauthorized, "No token provided"},
		{"forbidden", Forbidden("Access denied. Admin only."), http.StatusForbidden, "Access denied. Admin only."},
		{"not found", NotFound("Maintenance bill does not exist"), http.StatusNotFound, "Maintenance bill does not exist"},
		{"internal keeps message", Internal("Failed to fetch bills", errors.New("db down")), http.StatusInternalServerError, "Failed to fetch bills"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponse(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, w)
			if resp.Success {
				t.Error("expected success=false")
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("envelope status = %d, want %d", resp.Status, tt.wantStatus)
			}
		})
	}
}

func TestErrorResponseHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponse(c, Internal("Failed to fetch bills", errors.New("password=secret")))

	if resp := decodeEnvelope(t, w); resp.Error != nil {
		t.Errorf("internal cause leaked to client: %v", resp.Error)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, limit int
		total       int64
		wantPages   int
	}{
		{1, 10, 0, 0},
		{1, 10, 10, 1},
		{2, 10, 11, 2},
		{1, 0, 25, 0},
	}

	for _, tt := range tests {
		p := NewPagination(tt.page, tt.limit, tt.total)
		if p.Pages != tt.wantPages {
			t.Errorf("NewPagination(%d, %d, %d).Pages = %d, want %d", tt.page, tt.limit, tt.total, p.Pages, tt.wantPages)
		}
	}
}
