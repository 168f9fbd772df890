package repository

import (
	"context"

	"gorm.io/gorm"

	"hospital-asset/backend/internal/model"
)

// RepairRequestRepository 维修工单数据访问接口
type RepairRequestRepository interface {
	Create(ctx context.Context, req *model.RepairRequest) error
	GetByID(ctx context.Context, id int64) (*model.RepairRequest, error)
	List(ctx context.Context) ([]model.RepairRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]model.RepairRequest, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	CountByStatus(ctx context.Context, status model.RepairStatus) (int64, error)
}

type repairRequestRepo struct {
	db *gorm.DB
}

// NewRepairRequestRepo 创建 RepairRequestRepository 实例
func NewRepairRequestRepo(db *gorm.DB) RepairRequestRepository {
	return &repairRequestRepo{db: db}
}

func (r *repairRequestRepo) Create(ctx context.Context, req *model.RepairRequest) error {
	return translateError(r.db.WithContext(ctx).Create(req).Error)
}

func (r *repairRequestRepo) GetByID(ctx context.Context, id int64) (*model.RepairRequest, error) {
	var req model.RepairRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repairRequestRepo) List(ctx context.Context) ([]model.RepairRequest, error) {
	var reqs []model.RepairRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repairRequestRepo) ListByUser(ctx context.Context, userID int64) ([]model.RepairRequest, error) {
	var reqs []model.RepairRequest
	err := r.db.WithContext(ctx).
		Where("requested_by_user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repairRequestRepo) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return updateByID(r.db.WithContext(ctx), &model.RepairRequest{}, id, fields)
}

func (r *repairRequestRepo) CountByStatus(ctx context.Context, status model.RepairStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RepairRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
