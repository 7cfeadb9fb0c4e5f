package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/ctxutil"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authTestRouter(captured **ctxutil.RequestData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	am := NewAuthMiddleware(logger.NewNop(), testSecret)
	router.GET("/probe", am.RequireAuth(), func(c *gin.Context) {
		*captured = ctxutil.GetRequestData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	var captured *ctxutil.RequestData
	router := authTestRouter(&captured)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String()))
	req.Header.Set("X-Accessibility-Category", "visual")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if captured == nil {
		t.Fatal("request data not set")
	}
	if captured.UserID != userID {
		t.Fatalf("user id = %s, want %s", captured.UserID, userID)
	}
	if captured.AccessibilityCategory != "visual" {
		t.Fatalf("category = %q, want visual", captured.AccessibilityCategory)
	}
}

func TestRequireAuthRejections(t *testing.T) {
	var captured *ctxutil.RequestData
	router := authTestRouter(&captured)

	tests := []struct {
		name   string
		header string
	}{
		{"missing token", ""},
		{"malformed token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", uuid.NewString())},
		{"non-uuid subject", "Bearer " + signToken(t, testSecret, "alice")},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", tt.name, w.Code)
		}
	}
}
