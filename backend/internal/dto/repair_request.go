package dto

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"hospital-asset/backend/internal/model"
)

// ── 维修工单模块 DTO ──

// CreateRepairRequestRequest 提交维修工单
// status / requested_date / completed_date / admin_notes 不接受输入。
// requested_by_user_id 省略时取当前登录用户。
type CreateRepairRequestRequest struct {
	AssetID           int64  `json:"asset_id"             binding:"required,min=1"`
	RequestedByUserID *int64 `json:"requested_by_user_id" binding:"omitempty,min=1"`
	Description       string `json:"description"          binding:"required,max=2000"`
	Priority          string `json:"priority"             binding:"required,max=20"`
}

// UpdateRepairRequestRequest 管理员处理工单（稀疏更新）
// completed_date 不会随 status=completed 自动填充
type UpdateRepairRequestRequest struct {
	Status        nullable.Nullable[model.RepairStatus] `json:"status"`
	CompletedDate nullable.Nullable[time.Time]          `json:"completed_date"`
	AdminNotes    nullable.Nullable[string]             `json:"admin_notes"`
}

// Validate 校验已提供字段
func (r *UpdateRepairRequestRequest) Validate() error {
	return checkEnum("status", r.Status)
}

// RepairRequestResponse 维修工单响应
type RepairRequestResponse struct {
	ID                int64      `json:"id"`
	AssetID           int64      `json:"asset_id"`
	RequestedByUserID int64      `json:"requested_by_user_id"`
	Description       string     `json:"description"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	RequestedDate     time.Time  `json:"requested_date"`
	CompletedDate     *time.Time `json:"completed_date"`
	AdminNotes        *string    `json:"admin_notes"`
	CreatedAt         time.Time  `json:"created_at"`
}
