package public

import (
	"github.com/megano-shop/internal/http/response"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// SignUpRequest 注册请求
type SignUpRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInRequest 登录请求
type SignInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest 资料更新请求
type ProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

// ProfilePayload 用户资料响应
type ProfilePayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

// SignUp 注册并登录
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}
	user, token, err := h.UserAuthService.SignUp(req.Username, req.Password, req.Name)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "failed to sign up")
		return
	}
	h.setAuthCookie(c, token)
	response.Created(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"token":    token,
	})
}

// SignIn 登录
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}
	user, token, err := h.UserAuthService.SignIn(req.Username, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "failed to sign in")
		return
	}
	h.setAuthCookie(c, token)
	response.Success(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"token":    token,
	})
}

// SignOut 退出登录
func (h *Handler) SignOut(c *gin.Context) {
	h.clearAuthCookie(c)
	response.Success(c, gin.H{"status": "success"})
}

// GetProfile 获取当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetProfile(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "failed to load profile")
		return
	}
	response.Success(c, profilePayload(user))
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}
	user, err := h.UserAuthService.UpdateProfile(uid, service.ProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "failed to update profile")
		return
	}
	response.Success(c, profilePayload(user))
}

// PasswordRequest 密码修改请求
type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UpdatePassword 修改当前用户密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "current and new password are required")
		return
	}
	if err := h.UserAuthService.ChangePassword(uid, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, passwordErrorRules, "failed to update password")
		return
	}
	response.Success(c, gin.H{"status": "success"})
}

func profilePayload(user *models.User) ProfilePayload {
	return ProfilePayload{
		FullName: user.FullName,
		Email:    user.Email,
		Phone:    user.Phone,
		Avatar:   user.Avatar,
	}
}
