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
)

const testSecret = "unit-test-secret"

func signTestToken(t *testing.T, tokenType, role string, ttl time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID:    "11111111-1111-1111-1111-111111111111",
		Username:  "tester",
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	r := newAuthRouter()
	token := signTestToken(t, "access", "cashier", time.Hour)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tester")
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter()
	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	r := newAuthRouter()
	token := signTestToken(t, "access", "cashier", -time.Minute)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_RejectsRefreshToken(t *testing.T) {
	r := newAuthRouter()
	token := signTestToken(t, "refresh", "cashier", time.Hour)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	r := newAuthRouter()
	claims := JWTClaims{TokenType: "access", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	w := doRequest(r, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Enforcement(t *testing.T) {
	r := newAuthRouter("manager", "admin")

	w := doRequest(r, signTestToken(t, "access", "admin", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, signTestToken(t, "access", "cashier", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
