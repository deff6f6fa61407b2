package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finledger/transactions-api/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(tokens *token.Service) *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		principal, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": principal.ID, "admin": principal.Admin})
	})
	router.GET("/admin", RequireAdmin(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewService("test-secret", 3600)

	valid, err := tokens.Issue(7, "jon", false)
	require.NoError(t, err)

	expiredService := token.NewService("test-secret", 1)
	expired, err := expiredService.Issue(7, "jon", false)
	require.NoError(t, err)
	time.Sleep(2 * time.Second)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Authorization header missing"}`,
		},
		{
			name:       "malformed header without scheme",
			header:     "garbage",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid or expired token"}`,
		},
		{
			name:       "invalid token",
			header:     "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid or expired token"}`,
		},
		{
			name:       "expired token",
			header:     "Bearer " + expired,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid or expired token"}`,
		},
		{
			name:       "valid token",
			header:     "Bearer " + valid,
			wantStatus: http.StatusOK,
		},
	}

	router := newAuthRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareLowercaseHeaderKey(t *testing.T) {
	tokens := token.NewService("test-secret", 3600)
	signed, err := tokens.Issue(7, "jon", false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	// Bypass Header.Set canonicalisation to simulate a raw header map with a
	// lowercase key.
	req.Header["authorization"] = []string{"Bearer " + signed}

	w := httptest.NewRecorder()
	newAuthRouter(tokens).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	tokens := token.NewService("test-secret", 3600)

	adminToken, err := tokens.Issue(1, "admin", true)
	require.NoError(t, err)
	userToken, err := tokens.Issue(2, "jon", false)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Authorization header missing"}`,
		},
		{
			name:       "non-admin principal",
			header:     "Bearer " + userToken,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Insufficient authorization"}`,
		},
		{
			name:       "admin principal",
			header:     "Bearer " + adminToken,
			wantStatus: http.StatusOK,
			wantBody:   `{"ok":true}`,
		},
	}

	router := newAuthRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireAdminBlocksHandlerForNonAdmin(t *testing.T) {
	tokens := token.NewService("test-secret", 3600)
	userToken, err := tokens.Issue(2, "jon", false)
	require.NoError(t, err)

	var handlerRan bool
	router := gin.New()
	router.GET("/admin", RequireAdmin(tokens), func(c *gin.Context) {
		handlerRan = true
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The admin-only payload must never reach a non-admin principal; the
	// 401 body has to be the whole response.
	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Insufficient authorization"}`, w.Body.String())
}

func TestRequireAdminSetsPrincipal(t *testing.T) {
	tokens := token.NewService("test-secret", 3600)
	adminToken, err := tokens.Issue(1, "admin", true)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/admin", RequireAdmin(tokens), func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": principal.ID})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}
