package model

import "time"

// RepairStatus 维修工单状态
type RepairStatus string

const (
	RepairPending    RepairStatus = "pending"
	RepairInProgress RepairStatus = "in_progress"
	RepairCompleted  RepairStatus = "completed"
	RepairRejected   RepairStatus = "rejected"
)

// Valid 是否为已知工单状态
func (s RepairStatus) Valid() bool {
	switch s {
	case RepairPending, RepairInProgress, RepairCompleted, RepairRejected:
		return true
	}
	return false
}

// repairTransitions 工单状态机；completed / rejected 为终态
var repairTransitions = map[RepairStatus][]RepairStatus{
	RepairPending:    {RepairInProgress, RepairRejected, RepairCompleted},
	RepairInProgress: {RepairCompleted, RepairRejected},
}

// IsTerminal 是否为终态
func (s RepairStatus) IsTerminal() bool {
	return s == RepairCompleted || s == RepairRejected
}

// CanTransitionTo 状态机是否允许 s → next。
// 状态不变视为允许（仅修改备注等字段）。
func (s RepairStatus) CanTransitionTo(next RepairStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range repairTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RepairRequest 维修工单表 — 对应 repair_requests
type RepairRequest struct {
	ID                int64        `gorm:"primaryKey;autoIncrement"                   json:"id"`
	AssetID           int64        `gorm:"not null;index"                             json:"asset_id"`
	RequestedByUserID int64        `gorm:"not null;index"                             json:"requested_by_user_id"`
	Description       string       `gorm:"type:text;not null"                         json:"description"`
	Priority          string       `gorm:"type:text;not null"                         json:"priority"`
	Status            RepairStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RequestedDate     time.Time    `gorm:"not null"                                   json:"requested_date"`
	CompletedDate     *time.Time   `                                                  json:"completed_date"`
	AdminNotes        *string      `gorm:"type:text"                                  json:"admin_notes"`
	CreatedModel
}

// TableName 指定表名
func (RepairRequest) TableName() string { return "repair_requests" }
