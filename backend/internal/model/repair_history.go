package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepairHistory 维修记录表 — 对应 repair_history（仅追加）
type RepairHistory struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"   json:"id"`
	AssetID     int64           `gorm:"not null;index"             json:"asset_id"`
	RepairDate  time.Time       `gorm:"not null"                   json:"repair_date"`
	Description string          `gorm:"type:text;not null"         json:"description"`
	Cost        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cost"`
	Technician  string          `gorm:"type:text;not null"         json:"technician"`
	CreatedModel
}

// TableName 指定表名
func (RepairHistory) TableName() string { return "repair_history" }
