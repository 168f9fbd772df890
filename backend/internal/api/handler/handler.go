package handler

import (
	"hospital-asset/backend/internal/service"
	"hospital-asset/backend/pkg/realtime"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth                *AuthHandler
	User                *UserHandler
	Asset               *AssetHandler
	RepairRequest       *RepairRequestHandler
	MaintenanceSchedule *MaintenanceScheduleHandler
	RepairHistory       *RepairHistoryHandler
	Report              *ReportHandler
	Realtime            *RealtimeHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, hub *realtime.Hub) *Handler {
	return &Handler{
		Auth:                NewAuthHandler(svc.Auth),
		User:                NewUserHandler(svc.User),
		Asset:               NewAssetHandler(svc.Asset),
		RepairRequest:       NewRepairRequestHandler(svc.RepairRequest),
		MaintenanceSchedule: NewMaintenanceScheduleHandler(svc.MaintenanceSchedule),
		RepairHistory:       NewRepairHistoryHandler(svc.RepairHistory),
		Report:              NewReportHandler(svc.Report),
		Realtime:            NewRealtimeHandler(hub),
	}
}
