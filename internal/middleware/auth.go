// Package middleware 提供 gin 中间件：登录保护、限流、请求 ID。
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// SessionCookieName 是携带会话 token 的 cookie 名
const SessionCookieName = "session"

// ErrMissingToken 表示请求没有携带会话 token
var ErrMissingToken = errors.New("missing session token")

// LoginRequired 返回一个登录保护中间件。
// 未认证的请求重定向到登录入口 (带 next 参数)，而不是直接报错；
// 认证成功后把 user_id 写入 gin 上下文。
func LoginRequired(jwtSecret, loginURL string) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for LoginRequired middleware")
	}
	if loginURL == "" {
		panic("login URL cannot be empty for LoginRequired middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			logrus.WithError(err).Debug("LoginRequired: no usable session token")
			redirectToLogin(c, loginURL)
			return
		}

		claims, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Warn("LoginRequired: invalid session token")
			redirectToLogin(c, loginURL)
			return
		}

		userID, err := userIDFromClaims(claims)
		if err != nil {
			logrus.WithError(err).Error("LoginRequired: bad user_id claim")
			redirectToLogin(c, loginURL)
			return
		}

		c.Set("user_id", userID)
		logrus.WithField("user_id", userID).Debug("LoginRequired: user authenticated")
		c.Next()
	}
}

// CurrentUserID 从 gin 上下文取出登录用户 ID。
// 只在 LoginRequired 之后的 handler 里调用。
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := v.(uint)
	return userID, ok
}

// redirectToLogin 带上原始路径跳转到登录入口
func redirectToLogin(c *gin.Context, loginURL string) {
	next := c.Request.URL.RequestURI()
	c.Redirect(http.StatusFound, loginURL+"?next="+url.QueryEscape(next))
	c.Abort()
}

// extractToken 从 session cookie 或 Authorization 头提取 token
func extractToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwt.ErrTokenMalformed
	}
	return parts[1], nil
}

// validateToken 解析并验证会话 token
func validateToken(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token or claims type")
}

// userIDFromClaims 把 user_id claim 安全转换成 uint。
// JWT 数字默认解析为 float64。
func userIDFromClaims(claims jwt.MapClaims) (uint, error) {
	userIDClaim, ok := claims["user_id"]
	if !ok {
		return 0, errors.New("'user_id' claim missing in token")
	}
	userIDFloat, ok := userIDClaim.(float64)
	if !ok || userIDFloat <= 0 || userIDFloat != float64(uint(userIDFloat)) {
		return 0, fmt.Errorf("'user_id' claim is not a valid positive integer: %v", userIDClaim)
	}
	return uint(userIDFloat), nil
}
