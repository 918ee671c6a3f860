package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"residence-be-svc/internal/models"
	"residence-be-svc/pkg/utils"
)

func newTestTokenService(now time.Time) *tokenService {
	s := NewTokenService("test-secret", time.Hour).(*tokenService)
	s.now = func() time.Time { return now }
	return s
}

func TestTokenIssueAndParse(t *testing.T) {
	s := newTestTokenService(time.Now())
	resident := &models.Resident{ID: "r-1", Name: "Ayesha", Email: "ayesha@example.com"}

	token, err := s.Issue(resident)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := s.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.ID != "r-1" || claims.Role != string(models.RoleResident) {
		t.Errorf("unexpected claims: id=%q role=%q", claims.ID, claims.Role)
	}
	if claims.Email != "ayesha@example.com" || claims.Name != "Ayesha" {
		t.Errorf("unexpected profile claims: %+v", claims)
	}
}

func TestTokenParseExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, err := newTestTokenService(issued).Issue(&models.Admin{ID: "a-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = newTestTokenService(time.Now()).Parse(token)
	assertAppError(t, err, utils.KindForbidden, "Token has expired")
}

func TestTokenParseBadSignature(t *testing.T) {
	token, err := NewTokenService("other-secret", time.Hour).Issue(&models.Admin{ID: "a-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = newTestTokenService(time.Now()).Parse(token)
	assertAppError(t, err, utils.KindForbidden, "Invalid token")
}

func TestTokenParseMalformed(t *testing.T) {
	_, err := newTestTokenService(time.Now()).Parse("not-a-jwt")
	assertAppError(t, err, utils.KindForbidden, "Invalid token")
}

func TestTokenParseRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"id": "a-1", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if _, err := newTestTokenService(time.Now()).Parse(token); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("expected Forbidden for HS512 token, got %v", err)
	}
}

func TestTokenParseLegacyClaims(t *testing.T) {
	// tokens without a role claim and with the id only in sub
	claims := jwt.MapClaims{"sub": "a-legacy", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	parsed, err := newTestTokenService(time.Now()).Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.ID != "a-legacy" || parsed.Role != "" {
		t.Errorf("unexpected claims: id=%q role=%q", parsed.ID, parsed.Role)
	}
}

func TestTokenParseMissingID(t *testing.T) {
	claims := jwt.MapClaims{"type": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	_, err = newTestTokenService(time.Now()).Parse(token)
	assertAppError(t, err, utils.KindForbidden, "Invalid token")
}

func assertAppError(t *testing.T, err error, kind utils.ErrorKind, message string) {
	t.Helper()
	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("expected *utils.AppError, got %T (%v)", err, err)
	}
	if appErr.Kind != kind {
		t.Errorf("kind = %v, want %v", appErr.Kind, kind)
	}
	if message != "" && appErr.Message != message {
		t.Errorf("message = %q, want %q", appErr.Message, message)
	}
}
