package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/service"
	"hospital-asset/backend/pkg/response"
)

// MaintenanceScheduleHandler 保养计划 HTTP 处理器
type MaintenanceScheduleHandler struct {
	maintenanceSvc service.MaintenanceScheduleService
}

// NewMaintenanceScheduleHandler 创建 MaintenanceScheduleHandler
func NewMaintenanceScheduleHandler(maintenanceSvc service.MaintenanceScheduleService) *MaintenanceScheduleHandler {
	return &MaintenanceScheduleHandler{maintenanceSvc: maintenanceSvc}
}

// ListSchedules 获取全部保养计划
// GET /api/v1/maintenance-schedules
func (h *MaintenanceScheduleHandler) ListSchedules(c *gin.Context) {
	list, err := h.maintenanceSvc.List(c.Request.Context())
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateSchedule 创建保养计划
// POST /api/v1/maintenance-schedules
func (h *MaintenanceScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreateMaintenanceScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.maintenanceSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateSchedule 更新保养计划（含完成登记）
// PUT /api/v1/maintenance-schedules/:id
func (h *MaintenanceScheduleHandler) UpdateSchedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaintenanceScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.maintenanceSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleMaintenanceError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *MaintenanceScheduleHandler) handleMaintenanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMaintenanceNotFound):
		response.NotFound(c, 15001, "保养计划不存在")
	case errors.Is(err, service.ErrReferencedAssetNotFound):
		response.UnprocessableEntity(c, 15002, "关联的资产不存在")
	case errors.Is(err, service.ErrCompletedDateRequired):
		response.UnprocessableEntity(c, 15003, "状态为 completed 时必须提供 completed_date")
	default:
		response.InternalError(c)
	}
}
