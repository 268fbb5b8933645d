// Package auth 提供注册登录认证服务
package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/crypto"
	"github.com/liangyue/hotel-booking-backend/internal/common/errors"
	"github.com/liangyue/hotel-booking-backend/internal/common/jwt"
	"github.com/liangyue/hotel-booking-backend/internal/common/logger"
	"github.com/liangyue/hotel-booking-backend/internal/common/utils"
	"github.com/liangyue/hotel-booking-backend/internal/models"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
)

// 密码最小长度
const minPasswordLength = 8

// AuthService 认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// LoginResult 登录结果
type LoginResult struct {
	User  *UserInfo      `json:"user"`
	Token *jwt.TokenPair `json:"token"`
}

// Register 注册新用户，角色固定为顾客
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*UserInfo, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, errors.ErrEmailInvalid
	}
	if len(req.Password) < minPasswordLength {
		return nil, errors.ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrEmailExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleCustomer,
		Status:       models.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		return nil, errors.ErrEmailExists.WithError(err)
	}

	logger.Info("用户注册成功",
		logger.UserID(user.ID),
		logger.String("email", crypto.MaskEmail(user.Email)),
	)

	return convertUserInfo(user), nil
}

// Login 登录
// 邮箱不存在与密码错误返回同一错误，避免探测已注册邮箱
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, errors.ErrPasswordError
	}

	if user.Status != models.UserStatusActive {
		return nil, errors.ErrAccountDisabled
	}

	token, err := s.jwtManager.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	logger.Info("用户登录成功", logger.UserID(user.ID))

	return &LoginResult{
		User:  convertUserInfo(user),
		Token: token,
	}, nil
}

// RefreshToken 刷新令牌
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	token, err := s.jwtManager.RefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrTokenRefreshFail.WithError(err)
	}
	return token, nil
}

// GetProfile 获取当前用户信息
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertUserInfo(user), nil
}

// convertUserInfo 转换为用户信息
func convertUserInfo(user *models.User) *UserInfo {
	return &UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
