package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phs9607/mysite/internal/middleware"
)

const testSecret = "unit-test-secret"

func signTestToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/question/create", middleware.LoginRequired(testSecret, "/login"), func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func TestLoginRequired_NoToken_RedirectsToLoginWithNext(t *testing.T) {
	// Arrange
	r := newProtectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/question/create", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fquestion%2Fcreate", w.Header().Get("Location"))
}

func TestLoginRequired_ValidCookie_SetsUserID(t *testing.T) {
	// Arrange
	r := newProtectedRouter()
	tokenStr := signTestToken(t, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}, testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/question/create", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tokenStr})

	// Act
	r.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestLoginRequired_ValidBearerHeader_SetsUserID(t *testing.T) {
	// Arrange
	r := newProtectedRouter()
	tokenStr := signTestToken(t, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/question/create", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestLoginRequired_ExpiredToken_Redirects(t *testing.T) {
	// Arrange
	r := newProtectedRouter()
	tokenStr := signTestToken(t, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}, testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/question/create", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tokenStr})

	// Act
	r.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLoginRequired_WrongSecret_Redirects(t *testing.T) {
	// Arrange
	r := newProtectedRouter()
	tokenStr := signTestToken(t, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, "other-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/question/create", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tokenStr})

	// Act
	r.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLoginRequired_MissingUserIDClaim_Redirects(t *testing.T) {
	// Arrange
	r := newProtectedRouter()
	tokenStr := signTestToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/question/create", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tokenStr})

	// Act
	r.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
}
