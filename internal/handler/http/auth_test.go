package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phs9607/mysite/internal/domain"
	httpHandler "github.com/phs9607/mysite/internal/handler/http"
	"github.com/phs9607/mysite/internal/repository/mocks"
	"github.com/phs9607/mysite/internal/service"
)

// newLoginRouter 组装一个只挂 /login 的路由，用户仓库用 mock 顶替。
func newLoginRouter(t *testing.T, username, password string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	mockUserRepo := new(mocks.UserRepository)
	mockUserRepo.On("FindByUsername", mock.Anything, username).
		Return(&domain.User{ID: 1, Username: username, Password: string(hashedPassword)}, nil)

	authService, err := service.NewAuthService(mockUserRepo, "handler-test-secret", 1)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/login", httpHandler.NewAuthHandler(authService, 3600).Login)
	return r
}

func postLogin(r *gin.Engine, username, password, next string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("next", next)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_NextLocalPath_RedirectsThere(t *testing.T) {
	// Arrange
	r := newLoginRouter(t, "alice", "password123")

	// Act
	w := postLogin(r, "alice", "password123", "/question/create")

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/question/create", w.Header().Get("Location"))
}

func TestLogin_NextProtocolRelative_FallsBackToBoard(t *testing.T) {
	// Arrange: "//host" 是协议相对地址，放行就是站外跳转
	r := newLoginRouter(t, "alice", "password123")

	// Act
	w := postLogin(r, "alice", "password123", "//evil.example.com/phish")

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/board", w.Header().Get("Location"))
}

func TestLogin_NextBackslashVariant_FallsBackToBoard(t *testing.T) {
	// Arrange: 部分浏览器把 "/\host" 也当成协议相对地址
	r := newLoginRouter(t, "alice", "password123")

	// Act
	w := postLogin(r, "alice", "password123", `/\evil.example.com`)

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/board", w.Header().Get("Location"))
}

func TestLogin_NextAbsoluteURL_FallsBackToBoard(t *testing.T) {
	// Arrange
	r := newLoginRouter(t, "alice", "password123")

	// Act
	w := postLogin(r, "alice", "password123", "http://evil.example.com/")

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/board", w.Header().Get("Location"))
}

func TestLogin_NextEmpty_FallsBackToBoard(t *testing.T) {
	// Arrange
	r := newLoginRouter(t, "alice", "password123")

	// Act
	w := postLogin(r, "alice", "password123", "")

	// Assert
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/board", w.Header().Get("Location"))
}
