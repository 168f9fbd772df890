package dto

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"hospital-asset/backend/internal/model"
)

// ── 资产模块 DTO ──

// CreateAssetRequest 创建资产请求；status 按调用方给定值写入
type CreateAssetRequest struct {
	Name           string    `json:"name"             binding:"required,max=200"`
	Type           string    `json:"type"             binding:"required,oneof=medical_equipment furniture it_device vehicle"`
	Department     string    `json:"department"       binding:"required,max=100"`
	Location       string    `json:"location"         binding:"required,max=200"`
	SerialNumber   string    `json:"serial_number"    binding:"required,max=100"`
	PurchaseDate   time.Time `json:"purchase_date"    binding:"required"`
	Status         string    `json:"status"           binding:"required,oneof=active damaged under_repair inactive"`
	AssignedUserID *int64    `json:"assigned_user_id" binding:"omitempty,min=1"`
}

// UpdateAssetRequest 更新资产请求（稀疏更新）
// assigned_user_id 显式 null 表示取消分配
type UpdateAssetRequest struct {
	Name           nullable.Nullable[string]            `json:"name"`
	Type           nullable.Nullable[model.AssetType]   `json:"type"`
	Department     nullable.Nullable[string]            `json:"department"`
	Location       nullable.Nullable[string]            `json:"location"`
	SerialNumber   nullable.Nullable[string]            `json:"serial_number"`
	PurchaseDate   nullable.Nullable[time.Time]         `json:"purchase_date"`
	Status         nullable.Nullable[model.AssetStatus] `json:"status"`
	AssignedUserID nullable.Nullable[int64]             `json:"assigned_user_id"`
}

// Validate 校验已提供字段
func (r *UpdateAssetRequest) Validate() error {
	if err := checkString("name", r.Name, 1, 200); err != nil {
		return err
	}
	if err := checkEnum("type", r.Type); err != nil {
		return err
	}
	if err := checkString("department", r.Department, 1, 100); err != nil {
		return err
	}
	if err := checkString("location", r.Location, 1, 200); err != nil {
		return err
	}
	if err := checkString("serial_number", r.SerialNumber, 1, 100); err != nil {
		return err
	}
	if err := notNull("purchase_date", r.PurchaseDate); err != nil {
		return err
	}
	return checkEnum("status", r.Status)
}

// AssetResponse 资产信息响应
type AssetResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Department     string    `json:"department"`
	Location       string    `json:"location"`
	SerialNumber   string    `json:"serial_number"`
	PurchaseDate   time.Time `json:"purchase_date"`
	Status         string    `json:"status"`
	AssignedUserID *int64    `json:"assigned_user_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
