package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/service"
	"hospital-asset/backend/pkg/response"
)

// RepairHistoryHandler 维修记录 HTTP 处理器
type RepairHistoryHandler struct {
	historySvc service.RepairHistoryService
}

// NewRepairHistoryHandler 创建 RepairHistoryHandler
func NewRepairHistoryHandler(historySvc service.RepairHistoryService) *RepairHistoryHandler {
	return &RepairHistoryHandler{historySvc: historySvc}
}

// ListByAsset 获取资产的维修记录，按 repair_date 倒序
// 资产不存在时返回 404（16001），资产存在但无记录时返回空列表
// GET /api/v1/assets/:id/repair-history
func (h *RepairHistoryHandler) ListByAsset(c *gin.Context) {
	assetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	list, err := h.historySvc.ListByAsset(c.Request.Context(), assetID)
	if err != nil {
		h.handleRepairHistoryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateRecord 追加维修记录
// POST /api/v1/repair-history
func (h *RepairHistoryHandler) CreateRecord(c *gin.Context) {
	var req dto.CreateRepairHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.historySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleRepairHistoryError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *RepairHistoryHandler) handleRepairHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssetNotFound):
		response.NotFound(c, 16001, "资产不存在")
	case errors.Is(err, service.ErrReferencedAssetNotFound):
		response.UnprocessableEntity(c, 16002, "关联的资产不存在")
	default:
		response.InternalError(c)
	}
}
