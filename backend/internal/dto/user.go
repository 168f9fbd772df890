package dto

import (
	"github.com/oapi-codegen/nullable"

	"hospital-asset/backend/internal/model"
)

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// CreateUserRequest 创建用户请求；未提供密码的用户无法登录
type CreateUserRequest struct {
	Username   string `json:"username"   binding:"required,min=3,max=50"`
	Email      string `json:"email"      binding:"required,email"`
	Role       string `json:"role"       binding:"required,oneof=admin regular"`
	Department string `json:"department" binding:"required,min=1,max=100"`
	Password   string `json:"password"   binding:"omitempty,min=8,max=72"`
}

// UpdateUserRequest 更新用户请求（稀疏更新）
type UpdateUserRequest struct {
	Username   nullable.Nullable[string]         `json:"username"`
	Email      nullable.Nullable[string]         `json:"email"`
	Role       nullable.Nullable[model.UserRole] `json:"role"`
	Department nullable.Nullable[string]         `json:"department"`
	// Password 显式 null 表示清除密码（禁止登录）
	Password nullable.Nullable[string] `json:"password"`
}

// Validate 校验已提供字段
func (r *UpdateUserRequest) Validate() error {
	if err := checkString("username", r.Username, 3, 50); err != nil {
		return err
	}
	if err := checkEmail("email", r.Email); err != nil {
		return err
	}
	if err := checkEnum("role", r.Role); err != nil {
		return err
	}
	if err := checkString("department", r.Department, 1, 100); err != nil {
		return err
	}
	if v, err := r.Password.Get(); err == nil {
		return checkLength("password", v, 8, 72)
	}
	return nil
}
