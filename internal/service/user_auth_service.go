package service

import (
	"errors"
	"strings"
	"time"

	"github.com/megano-shop/internal/config"
	"github.com/megano-shop/internal/logger"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserJWTClaims 用户 Token 载荷
type UserJWTClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ProfileInput 资料更新输入（空串表示不更新该字段）
type ProfileInput struct {
	FullName string
	Email    string
	Phone    string
	Avatar   string
}

// UserAuthService 用户注册/登录/资料服务，为管道提供身份
type UserAuthService struct {
	cfg      config.JWTConfig
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg config.JWTConfig, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{cfg: cfg, userRepo: userRepo}
}

// SignUp 注册并直接签发 Token
func (s *UserAuthService) SignUp(username, password, fullName string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", ErrInvalidPassword
	}
	existing, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	logger.Infow("user_signed_up", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// SignIn 校验密码并签发 Token
func (s *UserAuthService) SignIn(username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidPassword
	}
	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	if err := s.userRepo.TouchLastLogin(user.ID, time.Now()); err != nil {
		logger.Warnw("user_touch_last_login_failed", "user_id", user.ID, "error", err)
	}
	return user, token, nil
}

// ParseToken 解析并校验用户 Token
func (s *UserAuthService) ParseToken(tokenString string) (*UserJWTClaims, error) {
	if s.cfg.SecretKey == "" {
		return nil, errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GetProfile 获取用户资料
func (s *UserAuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新用户资料
func (s *UserAuthService) UpdateProfile(userID uint, input ProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if v := strings.TrimSpace(input.FullName); v != "" {
		updates["full_name"] = v
	}
	if v := strings.TrimSpace(input.Email); v != "" {
		updates["email"] = v
	}
	if v := strings.TrimSpace(input.Phone); v != "" {
		updates["phone"] = v
	}
	if v := strings.TrimSpace(input.Avatar); v != "" {
		updates["avatar"] = v
	}
	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return nil, err
	}
	return s.GetProfile(userID)
}

// ChangePassword 修改密码。当前密码不匹配时拒绝，不吊销已签发的 Token。
func (s *UserAuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrPasswordMismatch
	}
	if newPassword == "" {
		return ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateProfile(userID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}
	logger.Infow("user_password_changed", "user_id", userID)
	return nil
}

func (s *UserAuthService) issueToken(user *models.User) (string, error) {
	expireHours := s.cfg.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	claims := UserJWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}
