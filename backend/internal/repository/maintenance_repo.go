package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hospital-asset/backend/internal/model"
)

// MaintenanceScheduleRepository 保养计划数据访问接口
type MaintenanceScheduleRepository interface {
	Create(ctx context.Context, schedule *model.MaintenanceSchedule) error
	GetByID(ctx context.Context, id int64) (*model.MaintenanceSchedule, error)
	List(ctx context.Context) ([]model.MaintenanceSchedule, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	// CountDue 统计 status=scheduled 且 scheduled_date <= now 的计划数
	CountDue(ctx context.Context, now time.Time) (int64, error)
}

type maintenanceScheduleRepo struct {
	db *gorm.DB
}

// NewMaintenanceScheduleRepo 创建 MaintenanceScheduleRepository 实例
func NewMaintenanceScheduleRepo(db *gorm.DB) MaintenanceScheduleRepository {
	return &maintenanceScheduleRepo{db: db}
}

func (r *maintenanceScheduleRepo) Create(ctx context.Context, schedule *model.MaintenanceSchedule) error {
	return translateError(r.db.WithContext(ctx).Create(schedule).Error)
}

func (r *maintenanceScheduleRepo) GetByID(ctx context.Context, id int64) (*model.MaintenanceSchedule, error) {
	var schedule model.MaintenanceSchedule
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *maintenanceScheduleRepo) List(ctx context.Context) ([]model.MaintenanceSchedule, error) {
	var schedules []model.MaintenanceSchedule
	err := r.db.WithContext(ctx).
		Order("scheduled_date ASC, id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *maintenanceScheduleRepo) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return updateByID(r.db.WithContext(ctx), &model.MaintenanceSchedule{}, id, fields)
}

func (r *maintenanceScheduleRepo) CountDue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.MaintenanceSchedule{}).
		Where("status = ? AND scheduled_date <= ?", model.MaintenanceScheduled, now).
		Count(&count).Error
	return count, err
}
