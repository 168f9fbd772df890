package handler

import (
	"github.com/gin-gonic/gin"

	"hospital-asset/backend/pkg/realtime"
)

// RealtimeHandler 维修工单实时推送（WebSocket）
type RealtimeHandler struct {
	hub *realtime.Hub
}

// NewRealtimeHandler 创建 RealtimeHandler
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Subscribe 升级为 WebSocket 并订阅工单事件
// GET /api/v1/ws/repair-requests?token=xxx
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	// 升级失败时 upgrader 已写入错误响应
	if err := h.hub.ServeWS(c.Writer, c.Request, userID); err != nil {
		c.Abort()
	}
}
