package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ── 维修记录模块 DTO ──

// CreateRepairHistoryRequest 追加维修记录
// cost 必填，可为 JSON 数字或字符串，非负且最多两位小数；0 需显式给出
type CreateRepairHistoryRequest struct {
	AssetID     int64               `json:"asset_id"    binding:"required,min=1"`
	RepairDate  time.Time           `json:"repair_date" binding:"required"`
	Description string              `json:"description" binding:"required,max=2000"`
	Cost        decimal.NullDecimal `json:"cost"`
	Technician  string              `json:"technician"  binding:"required,max=100"`
}

var maxCost = decimal.New(1, 8) // numeric(10,2)

// Validate 校验金额
func (r *CreateRepairHistoryRequest) Validate() error {
	if !r.Cost.Valid {
		return errors.New("cost 为必填项")
	}
	cost := r.Cost.Decimal
	if cost.IsNegative() {
		return errors.New("cost 不能为负数")
	}
	if !cost.Equal(cost.Round(2)) {
		return errors.New("cost 最多保留两位小数")
	}
	if cost.GreaterThanOrEqual(maxCost) {
		return errors.New("cost 超出范围")
	}
	return nil
}

// RepairHistoryResponse 维修记录响应
type RepairHistoryResponse struct {
	ID          int64           `json:"id"`
	AssetID     int64           `json:"asset_id"`
	RepairDate  time.Time       `json:"repair_date"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Technician  string          `json:"technician"`
	CreatedAt   time.Time       `json:"created_at"`
}
