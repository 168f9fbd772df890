package model

import "time"

// MaintenanceStatus 保养计划状态
type MaintenanceStatus string

const (
	MaintenanceScheduled MaintenanceStatus = "scheduled"
	MaintenanceCompleted MaintenanceStatus = "completed"
	MaintenanceOverdue   MaintenanceStatus = "overdue"
)

// Valid 是否为已知保养状态
func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceCompleted, MaintenanceOverdue:
		return true
	}
	return false
}

// MaintenanceSchedule 保养计划表 — 对应 maintenance_schedules
type MaintenanceSchedule struct {
	ID              int64             `gorm:"primaryKey;autoIncrement"                     json:"id"`
	AssetID         int64             `gorm:"not null;index"                               json:"asset_id"`
	ScheduledDate   time.Time         `gorm:"not null"                                     json:"scheduled_date"`
	MaintenanceType string            `gorm:"type:text;not null"                           json:"maintenance_type"`
	Status          MaintenanceStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	Notes           *string           `gorm:"type:text"                                    json:"notes"`
	CompletedDate   *time.Time        `                                                    json:"completed_date"`
	CreatedModel
}

// TableName 指定表名
func (MaintenanceSchedule) TableName() string { return "maintenance_schedules" }

// IsOverdueAt 读取时派生的逾期判断：仍处于 scheduled 且计划日期早于 now。
// 不修改存储的 status。
func (m *MaintenanceSchedule) IsOverdueAt(now time.Time) bool {
	return m.Status == MaintenanceScheduled && m.ScheduledDate.Before(now)
}
