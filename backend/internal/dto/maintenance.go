package dto

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"hospital-asset/backend/internal/model"
)

// ── 保养计划模块 DTO ──

// CreateMaintenanceScheduleRequest 创建保养计划；status 固定为 scheduled
type CreateMaintenanceScheduleRequest struct {
	AssetID         int64     `json:"asset_id"         binding:"required,min=1"`
	ScheduledDate   time.Time `json:"scheduled_date"   binding:"required"`
	MaintenanceType string    `json:"maintenance_type" binding:"required,max=100"`
	Notes           *string   `json:"notes"            binding:"omitempty,max=2000"`
}

// UpdateMaintenanceScheduleRequest 更新保养计划（稀疏更新）
type UpdateMaintenanceScheduleRequest struct {
	Status        nullable.Nullable[model.MaintenanceStatus] `json:"status"`
	ScheduledDate nullable.Nullable[time.Time]               `json:"scheduled_date"`
	CompletedDate nullable.Nullable[time.Time]               `json:"completed_date"`
	Notes         nullable.Nullable[string]                  `json:"notes"`
}

// Validate 校验已提供字段
func (r *UpdateMaintenanceScheduleRequest) Validate() error {
	if err := checkEnum("status", r.Status); err != nil {
		return err
	}
	return notNull("scheduled_date", r.ScheduledDate)
}

// MaintenanceScheduleResponse 保养计划响应
// is_overdue 为读取时派生：status=scheduled 且 scheduled_date 早于当前时间
type MaintenanceScheduleResponse struct {
	ID              int64      `json:"id"`
	AssetID         int64      `json:"asset_id"`
	ScheduledDate   time.Time  `json:"scheduled_date"`
	MaintenanceType string     `json:"maintenance_type"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes"`
	CompletedDate   *time.Time `json:"completed_date"`
	IsOverdue       bool       `json:"is_overdue"`
	CreatedAt       time.Time  `json:"created_at"`
}
