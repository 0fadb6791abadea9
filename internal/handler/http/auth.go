package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/phs9607/mysite/internal/middleware"
	"github.com/phs9607/mysite/internal/service"
)

// AuthHandler 负责注册、登录和登出。
// sessionMaxAge 是会话 cookie 的生存时间 (秒)，由 bootstrap 配置成和 token 过期一致。
type AuthHandler struct {
	authService   *service.AuthService
	sessionMaxAge int
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService, sessionMaxAge int) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		sessionMaxAge: sessionMaxAge,
	}
}

// RegisterForm 渲染注册页
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register 处理注册提交
func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	email := strings.TrimSpace(c.PostForm("email"))

	if username == "" || password == "" {
		c.HTML(http.StatusOK, "register.html", gin.H{
			"error":    "username and password are required",
			"username": username,
			"email":    email,
		})
		return
	}

	newUser, err := h.authService.Register(c.Request.Context(), username, password, email)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationFailed) {
			c.HTML(http.StatusOK, "register.html", gin.H{
				"error":    err.Error(),
				"username": username,
				"email":    email,
			})
			return
		}
		logrus.WithError(err).WithField("username", username).Error("Handler.Register: internal error")
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}

	logrus.WithField("user_id", newUser.ID).Info("Handler.Register: user registered")
	c.Redirect(http.StatusFound, "/login")
}

// LoginForm 渲染登录页，保留 next 参数
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"next": c.Query("next"),
	})
}

// Login 处理登录提交。成功后写会话 cookie 并跳回 next 或列表页。
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := c.PostForm("next")

	token, err := h.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			c.HTML(http.StatusOK, "login.html", gin.H{
				"error":    err.Error(),
				"username": username,
				"next":     next,
			})
			return
		}
		logrus.WithError(err).WithField("username", username).Error("Handler.Login: internal error")
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}

	c.SetCookie(middleware.SessionCookieName, token, h.sessionMaxAge, "/", "", false, true)
	if !isLocalRedirect(next) {
		next = "/board"
	}
	c.Redirect(http.StatusFound, next)
}

// isLocalRedirect 只放行站内路径。
// "//host" 和 "/\host" 会被浏览器当成协议相对地址跳出站外，一并拒绝。
func isLocalRedirect(next string) bool {
	if !strings.HasPrefix(next, "/") {
		return false
	}
	return !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\")
}

// Logout 清除会话 cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/board")
}
