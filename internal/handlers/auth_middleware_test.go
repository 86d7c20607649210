package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/config"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLogger utils.Logger = utils.NewSlogLogger(slog.New(slog.DiscardHandler))

func testIssuer() *auth.JWTIssuer {
	return auth.NewJWTIssuer("handler-secret", time.Hour, "marktrack-test")
}

func issueToken(t *testing.T, issuer auth.TokenIssuer, role models.UserRole, status models.UserStatus) string {
	t.Helper()
	token, err := issuer.Issue(auth.ClaimsForUser(&models.User{
		ID:     "7c7d3a4e-9a43-4d7b-a6c1-2f4f3f0f8a11",
		Email:  "user@school.test",
		Role:   role,
		Status: status,
	}))
	require.NoError(t, err)
	return token
}

func protectedEngine(am *AuthMiddleware, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{am.Authenticate()}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.String(http.StatusOK, userID)
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthenticate_Transports(t *testing.T) {
	issuer := testIssuer()
	token := issueToken(t, issuer, models.RolePending, models.StatusIncomplete)

	bearer := func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
	cookie := func(req *http.Request) { req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token}) }

	tests := []struct {
		name      string
		transport string
		attach    func(*http.Request)
		want      int
	}{
		{"bearer accepted", config.TransportBearer, bearer, http.StatusOK},
		{"cookie ignored in bearer mode", config.TransportBearer, cookie, http.StatusUnauthorized},
		{"cookie accepted", config.TransportCookie, cookie, http.StatusOK},
		{"bearer ignored in cookie mode", config.TransportCookie, bearer, http.StatusUnauthorized},
		{"both accepts bearer", config.TransportBoth, bearer, http.StatusOK},
		{"both accepts cookie", config.TransportBoth, cookie, http.StatusOK},
		{"missing token", config.TransportBoth, func(*http.Request) {}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			am := NewAuthMiddleware(issuer, config.JWTConfig{TokenTransport: tt.transport, TTL: time.Hour})
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.attach(req)
			w := httptest.NewRecorder()
			protectedEngine(am).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	am := NewAuthMiddleware(testIssuer(), config.JWTConfig{TokenTransport: config.TransportBearer})
	foreign := issueToken(t, auth.NewJWTIssuer("other-secret", time.Hour, "marktrack-test"), models.RoleAdmin, models.StatusActive)

	for _, header := range []string{"Bearer not-a-jwt", "Basic abc", "Bearer", "Bearer " + foreign} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		protectedEngine(am).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestRequireRoleAndStatus(t *testing.T) {
	issuer := testIssuer()
	am := NewAuthMiddleware(issuer, config.JWTConfig{TokenTransport: config.TransportBearer})
	engine := protectedEngine(am, am.RequireRole(models.RoleTeacher), am.RequireStatus(models.StatusActive))

	tests := []struct {
		name   string
		role   models.UserRole
		status models.UserStatus
		want   int
	}{
		{"active teacher", models.RoleTeacher, models.StatusActive, http.StatusOK},
		{"teacher awaiting details", models.RoleTeacher, models.StatusAwaitingDetails, http.StatusForbidden},
		{"student", models.RoleStudent, models.StatusActive, http.StatusForbidden},
		{"admin has no bypass", models.RoleAdmin, models.StatusActive, http.StatusForbidden},
		{"pending", models.RolePending, models.StatusIncomplete, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, issuer, tt.role, tt.status))
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSessionCookie(t *testing.T) {
	cfg := config.JWTConfig{TokenTransport: config.TransportCookie, TTL: time.Hour, CookieSecure: true}
	am := NewAuthMiddleware(testIssuer(), cfg)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	am.SetSessionCookie(c, "token-value")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	t.Run("bearer mode sets nothing", func(t *testing.T) {
		am := NewAuthMiddleware(testIssuer(), config.JWTConfig{TokenTransport: config.TransportBearer})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		am.SetSessionCookie(c, "token-value")
		assert.Empty(t, w.Result().Cookies())
	})
}
