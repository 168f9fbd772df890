package repository

import (
	"context"

	"gorm.io/gorm"

	"hospital-asset/backend/internal/model"
)

// RepairHistoryRepository 维修记录数据访问接口（仅追加）
type RepairHistoryRepository interface {
	Create(ctx context.Context, record *model.RepairHistory) error
	ListByAsset(ctx context.Context, assetID int64) ([]model.RepairHistory, error)
}

type repairHistoryRepo struct {
	db *gorm.DB
}

// NewRepairHistoryRepo 创建 RepairHistoryRepository 实例
func NewRepairHistoryRepo(db *gorm.DB) RepairHistoryRepository {
	return &repairHistoryRepo{db: db}
}

func (r *repairHistoryRepo) Create(ctx context.Context, record *model.RepairHistory) error {
	return translateError(r.db.WithContext(ctx).Create(record).Error)
}

func (r *repairHistoryRepo) ListByAsset(ctx context.Context, assetID int64) ([]model.RepairHistory, error) {
	var records []model.RepairHistory
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("repair_date DESC, id DESC").
		Find(&records).Error
	return records, err
}
