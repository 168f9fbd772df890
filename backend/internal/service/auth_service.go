package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hospital-asset/backend/config"
	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/repository"
	"hospital-asset/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials    = errors.New("用户名或密码错误")
	ErrCredentialsNotSet     = errors.New("该账号未设置密码，无法登录")
	ErrRevocationUnavailable = errors.New("令牌吊销服务不可用")
)

// AuthService 认证业务接口
// 角色校验由中间件完成，业务 Service 不感知调用者角色
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout 将 Token 的 jti 加入黑名单直至其过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
	// EnsureBootstrapAdmin 系统中不存在管理员时按配置创建
	EnsureBootstrapAdmin(ctx context.Context) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if user.PasswordHash == nil {
		return nil, ErrCredentialsNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Token
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, string(user.Role), user.Department)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录", zap.Int64("user_id", user.ID))

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        *toUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil {
		return ErrRevocationUnavailable
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("写入 Token 黑名单失败", zap.String("jti", jti), zap.Error(err))
		return ErrRevocationUnavailable
	}
	return nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询当前用户失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *authService) EnsureBootstrapAdmin(ctx context.Context) error {
	admin := s.cfg.Auth.BootstrapAdmin
	if admin.Username == "" {
		return nil
	}

	count, err := s.repo.User.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := hashPassword(admin.Password)
	if err != nil {
		return err
	}

	email := admin.Email
	if email == "" {
		email = admin.Username + "@hospital.local"
	}

	user := &model.User{
		Username:     admin.Username,
		Email:        email,
		PasswordHash: &hash,
		Role:         model.RoleAdmin,
		Department:   admin.Department,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if mapped := mapUserUniqueError(err); mapped != nil {
			s.logger.Warn("引导管理员与现有用户冲突，跳过创建",
				zap.String("username", admin.Username), zap.Error(mapped))
			return nil
		}
		return err
	}

	s.logger.Info("已创建引导管理员", zap.Int64("id", user.ID), zap.String("username", user.Username))
	return nil
}
