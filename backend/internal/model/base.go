package model

import "time"

// ── 约束名 ──
// 与 migrations 中显式命名的约束保持一致，Service 层据此区分冲突的字段。
const (
	ConstraintUsersUsername      = "uq_users_username"
	ConstraintUsersEmail         = "uq_users_email"
	ConstraintAssetsSerialNumber = "uq_assets_serial_number"

	ConstraintAssetsAssignedUser  = "fk_assets_assigned_user"
	ConstraintMaintenanceAsset    = "fk_maintenance_asset"
	ConstraintRepairHistoryAsset  = "fk_repair_history_asset"
	ConstraintRepairRequestsAsset = "fk_repair_requests_asset"
	ConstraintRepairRequestsUser  = "fk_repair_requests_user"
)

// CreatedModel 仅含创建时间（追加型记录、一次写入的记录）
type CreatedModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// BaseModel 创建/更新时间审计字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
