package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/repository"
	pkgerrors "hospital-asset/backend/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound   = pkgerrors.Wrap(pkgerrors.ErrNotFound, "用户不存在")
	ErrUsernameExists = pkgerrors.Wrap(pkgerrors.ErrUniquenessViolation, "用户名已存在")
	ErrEmailExists    = pkgerrors.Wrap(pkgerrors.ErrUniquenessViolation, "邮箱已被使用")
	ErrUserInUse      = pkgerrors.Wrap(pkgerrors.ErrReferenceInUse, "用户仍被资产或维修工单引用，无法删除")
	ErrDeleteSelf     = pkgerrors.Wrap(pkgerrors.ErrInvalidState, "不能删除当前登录的账号")
)

// UserService 用户管理接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	// Delete 返回是否实际删除；目标不存在时返回 false
	Delete(ctx context.Context, id int64, callerID int64) (bool, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := &model.User{
		Username:   req.Username,
		Email:      req.Email,
		Role:       model.UserRole(req.Role),
		Department: req.Department,
	}

	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = &hash
	}

	// 唯一性交由存储层判断
	if err := s.repo.User.Create(ctx, user); err != nil {
		if mapped := mapUserUniqueError(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("创建用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户已创建", zap.Int64("id", user.ID), zap.String("role", string(user.Role)))
	return toUserResponse(user), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	fields := make(map[string]interface{})
	if v, err := req.Username.Get(); err == nil {
		user.Username = v
		fields["username"] = v
	}
	if v, err := req.Email.Get(); err == nil {
		user.Email = v
		fields["email"] = v
	}
	if v, err := req.Role.Get(); err == nil {
		user.Role = v
		fields["role"] = v
	}
	if v, err := req.Department.Get(); err == nil {
		user.Department = v
		fields["department"] = v
	}
	if req.Password.IsSpecified() {
		user.PasswordHash = nil
		if v, getErr := req.Password.Get(); getErr == nil {
			hash, err := hashPassword(v)
			if err != nil {
				s.logger.Error("密码哈希失败", zap.Error(err))
				return nil, err
			}
			user.PasswordHash = &hash
		}
		fields["password_hash"] = user.PasswordHash
	}

	if len(fields) > 0 {
		if err := s.repo.User.Update(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			if mapped := mapUserUniqueError(err); mapped != nil {
				return nil, mapped
			}
			s.logger.Error("更新用户失败", zap.Int64("id", id), zap.Error(err))
			return nil, err
		}
	}

	return toUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id int64, callerID int64) (bool, error) {
	if id == callerID {
		return false, ErrDeleteSelf
	}

	removed, err := s.repo.User.Delete(ctx, id)
	if err != nil {
		var fkErr *pkgerrors.ForeignKeyError
		if errors.As(err, &fkErr) {
			return false, ErrUserInUse
		}
		s.logger.Error("删除用户失败", zap.Int64("id", id), zap.Error(err))
		return false, err
	}
	if removed {
		s.logger.Info("用户已删除", zap.Int64("id", id), zap.Int64("by", callerID))
	}
	return removed, nil
}

// mapUserUniqueError 按约束名区分用户名与邮箱冲突
func mapUserUniqueError(err error) error {
	var dupErr *pkgerrors.DuplicateKeyError
	if !errors.As(err, &dupErr) {
		return nil
	}
	switch dupErr.Constraint {
	case model.ConstraintUsersUsername:
		return ErrUsernameExists
	case model.ConstraintUsersEmail:
		return ErrEmailExists
	}
	return nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}
