package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hospital-asset/backend/internal/dto"
	"hospital-asset/backend/internal/service"
	"hospital-asset/backend/pkg/response"
)

// AssetHandler 资产模块 HTTP 处理器
type AssetHandler struct {
	assetSvc service.AssetService
}

// NewAssetHandler 创建 AssetHandler
func NewAssetHandler(assetSvc service.AssetService) *AssetHandler {
	return &AssetHandler{assetSvc: assetSvc}
}

// ListAssets 获取资产列表，可按部门精确过滤
// GET /api/v1/assets?department=xxx
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var (
		assets []dto.AssetResponse
		err    error
	)
	if dept, ok := c.GetQuery("department"); ok {
		assets, err = h.assetSvc.ListByDepartment(c.Request.Context(), dept)
	} else {
		assets, err = h.assetSvc.List(c.Request.Context())
	}
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, gin.H{"list": assets})
}

// ListUserAssets 获取分配给指定用户的资产
// GET /api/v1/users/:id/assets
func (h *AssetHandler) ListUserAssets(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	assets, err := h.assetSvc.ListByAssignedUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, gin.H{"list": assets})
}

// GetAsset 获取资产详情
// GET /api/v1/assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	asset, err := h.assetSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, asset)
}

// CreateAsset 登记资产
// POST /api/v1/assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req dto.CreateAssetRequest
	if !bindJSON(c, &req) {
		return
	}

	asset, err := h.assetSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.Created(c, asset)
}

// UpdateAsset 稀疏更新资产
// PUT /api/v1/assets/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssetRequest
	if !bindJSON(c, &req) {
		return
	}

	asset, err := h.assetSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, asset)
}

// DeleteAsset 删除资产；不存在时返回 deleted=false
// DELETE /api/v1/assets/:id
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	removed, err := h.assetSvc.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, dto.DeleteResponse{Deleted: removed})
}

// handleAssetError 统一处理资产模块业务错误
func (h *AssetHandler) handleAssetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssetNotFound):
		response.NotFound(c, 13001, "资产不存在")
	case errors.Is(err, service.ErrSerialNumberExists):
		response.Conflict(c, 13002, "序列号已存在")
	case errors.Is(err, service.ErrAssignedUserNotFound):
		response.UnprocessableEntity(c, 13003, "分配的用户不存在")
	case errors.Is(err, service.ErrAssetInUse):
		response.Conflict(c, 13004, "资产仍被其他记录引用，无法删除")
	default:
		response.InternalError(c)
	}
}
