package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/internal/service"
	"hospital-asset/backend/pkg/response"
)

// RepairRequestHandler 维修工单 HTTP 处理器
type RepairRequestHandler struct {
	repairSvc service.RepairRequestService
}

// NewRepairRequestHandler 创建 RepairRequestHandler
func NewRepairRequestHandler(repairSvc service.RepairRequestService) *RepairRequestHandler {
	return &RepairRequestHandler{repairSvc: repairSvc}
}

// ListRepairRequests 获取全部工单（按创建时间倒序）
// GET /api/v1/repair-requests
func (h *RepairRequestHandler) ListRepairRequests(c *gin.Context) {
	list, err := h.repairSvc.List(c.Request.Context())
	if err != nil {
		h.handleRepairRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListUserRepairRequests 获取指定用户提交的工单
// GET /api/v1/users/:id/repair-requests
func (h *RepairRequestHandler) ListUserRepairRequests(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	list, err := h.repairSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleRepairRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateRepairRequest 提交维修工单
// POST /api/v1/repair-requests
//
// requested_by_user_id 缺省为当前用户；仅管理员可代他人提交
func (h *RepairRequestHandler) CreateRepairRequest(c *gin.Context) {
	var req dto.CreateRepairRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	requesterID := callerID
	if req.RequestedByUserID != nil && *req.RequestedByUserID != callerID {
		if role != string(model.RoleAdmin) {
			response.Forbidden(c, 14003, "不能以他人名义提交工单")
			return
		}
		requesterID = *req.RequestedByUserID
	}

	result, err := h.repairSvc.Create(c.Request.Context(), &req, requesterID)
	if err != nil {
		h.handleRepairRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateRepairRequest 处理工单（稀疏更新 status / completed_date / admin_notes）
// PUT /api/v1/repair-requests/:id
func (h *RepairRequestHandler) UpdateRepairRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRepairRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.repairSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleRepairRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// handleRepairRequestError 统一处理维修工单业务错误
func (h *RepairRequestHandler) handleRepairRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRepairRequestNotFound):
		response.NotFound(c, 14001, "维修工单不存在")
	case errors.Is(err, service.ErrReferencedAssetNotFound):
		response.UnprocessableEntity(c, 14002, "关联的资产不存在")
	case errors.Is(err, service.ErrRequesterNotFound):
		response.UnprocessableEntity(c, 14004, "提交人不存在")
	case errors.Is(err, service.ErrIllegalTransition):
		response.UnprocessableEntity(c, 14005, "不允许的工单状态流转")
	default:
		response.InternalError(c)
	}
}
