package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/infrastructure/auth"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, userID, email string, role identity.Role) string {
	t.Helper()
	claims := auth.Claims{
		UserID: userID,
		Email:  email,
		Name:   "Ana Souza",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": GetUserID(c),
			"email":  GetUserEmail(c),
			"role":   string(GetRole(c)),
		})
	})
	engine.GET("/protected", chain...)
	return engine
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, "", "")
	engine := protectedRouter(RequireAuth(jwtService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+signToken(t, "user-1", "ana@example.com", identity.RoleCustomer))
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), "ana@example.com")
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, "", "")
	engine := protectedRouter(RequireAuth(jwtService))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsTamperedToken(t *testing.T) {
	jwtService := auth.NewJWTService("another-secret", "", "")
	engine := protectedRouter(RequireAuth(jwtService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+signToken(t, "user-1", "ana@example.com", identity.RoleCustomer))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, "", "")
	engine := protectedRouter(OptionalAuth(jwtService))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":""`)
}

func TestOptionalAuthStillRejectsBadToken(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, "", "")
	engine := protectedRouter(OptionalAuth(jwtService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Bearer garbage")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStaff(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, "", "")
	engine := protectedRouter(RequireAuth(jwtService), RequireStaff())

	tests := []struct {
		name       string
		role       identity.Role
		wantStatus int
	}{
		{"customer is rejected", identity.RoleCustomer, http.StatusForbidden},
		{"staff passes", identity.RoleStaff, http.StatusOK},
		{"admin passes", identity.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set(AuthHeaderKey, "Bearer "+signToken(t, "user-1", "ana@example.com", tt.role))
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
