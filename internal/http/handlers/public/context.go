package public

import (
	"github.com/megano-shop/internal/http/response"
	"github.com/megano-shop/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getUserID 读取认证中间件写入的用户 ID；未登录返回 false
func getUserID(c *gin.Context) (uint, bool) {
	value, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	uid, ok := value.(uint)
	if !ok || uid == 0 {
		return 0, false
	}
	return uid, true
}

// cartIdentity 解析购物车身份：已登录按用户 ID，
// 匿名按会话 Cookie，首次访问时懒创建会话令牌并写回 Cookie。
func (h *Handler) cartIdentity(c *gin.Context) repository.CartIdentity {
	if uid, ok := getUserID(c); ok {
		return repository.CartIdentity{UserID: uid}
	}

	cookieName := h.Config.Session.CookieName
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		token = uuid.NewString()
		maxAge := h.Config.Session.MaxAgeDays * 24 * 3600
		c.SetCookie(cookieName, token, maxAge, "/", "", false, true)
	}
	return repository.CartIdentity{SessionToken: token}
}

// currentUserIDPtr 登录用户返回指针，游客返回 nil
func currentUserIDPtr(c *gin.Context) *uint {
	if uid, ok := getUserID(c); ok {
		return &uid
	}
	return nil
}

// setAuthCookie 写入登录 Token Cookie
func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	maxAge := h.Config.JWT.ExpireHours * 3600
	c.SetCookie(h.Config.JWT.CookieName, token, maxAge, "/", "", false, true)
}

// clearAuthCookie 清除登录 Token Cookie
func (h *Handler) clearAuthCookie(c *gin.Context) {
	c.SetCookie(h.Config.JWT.CookieName, "", -1, "/", "", false, true)
}

func requireUser(c *gin.Context) (uint, bool) {
	uid, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
	}
	return uid, ok
}
