package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User                UserRepository
	Asset               AssetRepository
	MaintenanceSchedule MaintenanceScheduleRepository
	RepairHistory       RepairHistoryRepository
	RepairRequest       RepairRequestRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:                NewUserRepo(db),
		Asset:               NewAssetRepo(db),
		MaintenanceSchedule: NewMaintenanceScheduleRepo(db),
		RepairHistory:       NewRepairHistoryRepo(db),
		RepairRequest:       NewRepairRequestRepo(db),
	}
}
